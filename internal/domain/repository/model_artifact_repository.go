// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"model3d-ai-api/internal/domain/entity"
)

// ModelArtifactRepository 模型文件元数据仓储接口
type ModelArtifactRepository interface {
	// Create 创建模型记录
	Create(ctx context.Context, artifact *entity.ModelArtifact) error

	// GetByID 根据 ID 获取模型记录
	GetByID(ctx context.Context, id string) (*entity.ModelArtifact, error)

	// Update 更新模型记录
	Update(ctx context.Context, artifact *entity.ModelArtifact) error

	// Delete 删除模型记录
	Delete(ctx context.Context, id string) error

	// ListByUser 获取用户的模型列表
	ListByUser(ctx context.Context, userID string, pagination Pagination) (*PagedResult[*entity.ModelArtifact], error)
}
