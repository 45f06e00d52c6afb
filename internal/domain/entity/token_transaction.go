// Package entity 定义领域实体
package entity

import (
	"time"
)

// TokenTransactionType 代币流水类型
type TokenTransactionType string

const (
	TokenTransactionTypeCharge TokenTransactionType = "charge"
	TokenTransactionTypeTopUp  TokenTransactionType = "top_up"
	TokenTransactionTypeFree   TokenTransactionType = "free"
)

// TokenTransaction 代币流水记录
type TokenTransaction struct {
	ID        string               `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    string               `json:"user_id" gorm:"type:uuid;index;not null"`
	Type      TokenTransactionType `json:"type" gorm:"type:varchar(16);not null"`
	Feature   string               `json:"feature" gorm:"type:varchar(64);not null"`
	Amount    int                  `json:"amount" gorm:"not null"`
	Balance   int                  `json:"balance" gorm:"not null"`
	CreatedAt time.Time            `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (TokenTransaction) TableName() string {
	return "token_transactions"
}
