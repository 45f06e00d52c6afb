// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"model3d-ai-api/internal/domain/entity"
	"model3d-ai-api/internal/domain/repository"
)

// TokenTransactionRepository 代币流水仓储实现
type TokenTransactionRepository struct {
	client *Client
}

// NewTokenTransactionRepository 创建流水仓储
func NewTokenTransactionRepository(client *Client) *TokenTransactionRepository {
	return &TokenTransactionRepository{client: client}
}

// Create 创建流水记录
func (r *TokenTransactionRepository) Create(ctx context.Context, tx *entity.TokenTransaction) error {
	ctx, span := tracer.Start(ctx, "postgres.TokenTransactionRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(tx).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create token transaction: %w", err)
	}
	return nil
}

// ListByUser 获取用户的流水列表
func (r *TokenTransactionRepository) ListByUser(ctx context.Context, userID string, pagination repository.Pagination) (*repository.PagedResult[*entity.TokenTransaction], error) {
	ctx, span := tracer.Start(ctx, "postgres.TokenTransactionRepository.ListByUser")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.TokenTransaction{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count token transactions: %w", err)
	}

	var transactions []*entity.TokenTransaction
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&transactions).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list token transactions: %w", err)
	}

	return repository.NewPagedResult(transactions, total, pagination), nil
}
