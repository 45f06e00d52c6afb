// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"model3d-ai-api/internal/domain/entity"
)

// UserRepository 用户仓储接口
type UserRepository interface {
	// Create 创建用户
	Create(ctx context.Context, user *entity.User) error

	// GetByID 根据 ID 获取用户
	GetByID(ctx context.Context, id string) (*entity.User, error)

	// GetByEmail 根据邮箱获取用户
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// Update 更新用户
	Update(ctx context.Context, user *entity.User) error

	// Delete 删除用户
	Delete(ctx context.Context, id string) error

	// UpdateLastLogin 更新最后登录时间
	UpdateLastLogin(ctx context.Context, id string) error

	// ExistsByEmail 检查邮箱是否存在
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// AddTokens 增加代币余额，返回更新后的余额
	AddTokens(ctx context.Context, id string, amount int) (int, error)

	// DeductTokens 扣减代币余额，余额不足时返回错误
	DeductTokens(ctx context.Context, id string, amount int) (int, error)

	// IncrementFreeGenerations 免费生成次数加一，返回已用次数
	IncrementFreeGenerations(ctx context.Context, id string) (int, error)
}
