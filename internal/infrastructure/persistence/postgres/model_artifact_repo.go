// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"model3d-ai-api/internal/domain/entity"
	"model3d-ai-api/internal/domain/repository"
)

// ModelArtifactRepository 模型文件元数据仓储实现
type ModelArtifactRepository struct {
	client *Client
}

// NewModelArtifactRepository 创建模型仓储
func NewModelArtifactRepository(client *Client) *ModelArtifactRepository {
	return &ModelArtifactRepository{client: client}
}

// Create 创建模型记录
func (r *ModelArtifactRepository) Create(ctx context.Context, artifact *entity.ModelArtifact) error {
	ctx, span := tracer.Start(ctx, "postgres.ModelArtifactRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(artifact).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create model artifact: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取模型记录
func (r *ModelArtifactRepository) GetByID(ctx context.Context, id string) (*entity.ModelArtifact, error) {
	ctx, span := tracer.Start(ctx, "postgres.ModelArtifactRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var artifact entity.ModelArtifact
	if err := db.First(&artifact, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get model artifact: %w", err)
	}
	return &artifact, nil
}

// Update 更新模型记录
func (r *ModelArtifactRepository) Update(ctx context.Context, artifact *entity.ModelArtifact) error {
	ctx, span := tracer.Start(ctx, "postgres.ModelArtifactRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(artifact).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update model artifact: %w", err)
	}
	return nil
}

// Delete 删除模型记录
func (r *ModelArtifactRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.ModelArtifactRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.ModelArtifact{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete model artifact: %w", err)
	}
	return nil
}

// ListByUser 获取用户的模型列表
func (r *ModelArtifactRepository) ListByUser(ctx context.Context, userID string, pagination repository.Pagination) (*repository.PagedResult[*entity.ModelArtifact], error) {
	ctx, span := tracer.Start(ctx, "postgres.ModelArtifactRepository.ListByUser")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.ModelArtifact{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count model artifacts: %w", err)
	}

	var artifacts []*entity.ModelArtifact
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&artifacts).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list model artifacts: %w", err)
	}

	return repository.NewPagedResult(artifacts, total, pagination), nil
}
