// Package entity 定义领域实体
package entity

import (
	"time"
)

// ModelArtifact 已持久化的模型文件元数据
type ModelArtifact struct {
	ID          string          `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      string          `json:"user_id" gorm:"type:varchar(64);index;not null"`
	Name        string          `json:"name" gorm:"type:varchar(255);not null"`
	Source      SynthesisSource `json:"source" gorm:"type:varchar(16);not null"`
	ScadPath    string          `json:"scad_path" gorm:"type:varchar(512);not null"`
	PreviewPath string          `json:"preview_path,omitempty" gorm:"type:varchar(512)"`
	StlPath     string          `json:"stl_path,omitempty" gorm:"type:varchar(512)"`
	SizeBytes   int64           `json:"size_bytes" gorm:"not null;default:0"`
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (ModelArtifact) TableName() string {
	return "model_artifacts"
}
