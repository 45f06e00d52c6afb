// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"model3d-ai-api/internal/domain/entity"
)

// TokenTransactionRepository 代币流水仓储接口
type TokenTransactionRepository interface {
	// Create 创建流水记录
	Create(ctx context.Context, tx *entity.TokenTransaction) error

	// ListByUser 获取用户的流水列表
	ListByUser(ctx context.Context, userID string, pagination Pagination) (*PagedResult[*entity.TokenTransaction], error)
}
