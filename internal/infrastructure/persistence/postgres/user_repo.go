// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"model3d-ai-api/internal/domain/entity"
)

// UserRepository 用户仓储实现
type UserRepository struct {
	client *Client
}

// NewUserRepository 创建用户仓储
func NewUserRepository(client *Client) *UserRepository {
	return &UserRepository{client: client}
}

// Create 创建用户
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(user).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取用户
// 用户不存在时原样返回 gorm.ErrRecordNotFound，调用方用 errors.Is 判断
func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var user entity.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByEmail 根据邮箱获取用户
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.GetByEmail")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var user entity.User
	if err := db.First(&user, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// Update 更新用户
func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(user).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// Delete 删除用户
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.User{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// UpdateLastLogin 更新最后登录时间
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.UpdateLastLogin")
	defer span.End()

	db := getDB(ctx, r.client.db)
	now := time.Now()
	if err := db.Model(&entity.User{}).Where("id = ?", id).Update("last_login_at", now).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// ExistsByEmail 检查邮箱是否存在
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.ExistsByEmail")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var count int64
	if err := db.Model(&entity.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("failed to check email exists: %w", err)
	}
	return count > 0, nil
}

// AddTokens 增加代币余额，返回更新后的余额
func (r *UserRepository) AddTokens(ctx context.Context, id string, amount int) (int, error) {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.AddTokens")
	defer span.End()

	db := getDB(ctx, r.client.db)
	result := db.Model(&entity.User{}).
		Where("id = ?", id).
		Update("token_balance", gorm.Expr("token_balance + ?", amount))
	if result.Error != nil {
		span.RecordError(result.Error)
		return 0, fmt.Errorf("failed to add tokens: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return r.currentBalance(ctx, id)
}

// DeductTokens 扣减代币余额
// 条件更新保证余额不会被扣成负数，余额不足时不发生任何写入
func (r *UserRepository) DeductTokens(ctx context.Context, id string, amount int) (int, error) {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.DeductTokens")
	defer span.End()

	db := getDB(ctx, r.client.db)
	result := db.Model(&entity.User{}).
		Where("id = ? AND token_balance >= ?", id, amount).
		Update("token_balance", gorm.Expr("token_balance - ?", amount))
	if result.Error != nil {
		span.RecordError(result.Error)
		return 0, fmt.Errorf("failed to deduct tokens: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, fmt.Errorf("insufficient token balance for user %s", id)
	}
	return r.currentBalance(ctx, id)
}

// IncrementFreeGenerations 免费生成次数加一，返回已用次数
func (r *UserRepository) IncrementFreeGenerations(ctx context.Context, id string) (int, error) {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.IncrementFreeGenerations")
	defer span.End()

	db := getDB(ctx, r.client.db)
	result := db.Model(&entity.User{}).
		Where("id = ?", id).
		Update("free_generations_used", gorm.Expr("free_generations_used + 1"))
	if result.Error != nil {
		span.RecordError(result.Error)
		return 0, fmt.Errorf("failed to increment free generations: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	var used int
	if err := db.Model(&entity.User{}).Where("id = ?", id).Pluck("free_generations_used", &used).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to read free generations: %w", err)
	}
	return used, nil
}

// currentBalance 读取当前余额
func (r *UserRepository) currentBalance(ctx context.Context, id string) (int, error) {
	db := getDB(ctx, r.client.db)
	var balance int
	if err := db.Model(&entity.User{}).Where("id = ?", id).Pluck("token_balance", &balance).Error; err != nil {
		return 0, fmt.Errorf("failed to read token balance: %w", err)
	}
	return balance, nil
}
