// Package quota 提供代币配额与计费能力
package quota

import (
	"context"
	"errors"
	"fmt"

	"model3d-ai-api/internal/domain/entity"
	"model3d-ai-api/internal/domain/repository"
	apperrors "model3d-ai-api/pkg/errors"
	"model3d-ai-api/pkg/logger"
	"model3d-ai-api/pkg/metrics"

	"gorm.io/gorm"
)

// 计费功能项
const (
	FeatureGeneration     = "openscad_generation"
	FeatureImageTo3D      = "image_to_3d"
	FeatureExportSTL      = "export_stl"
	FeatureExportOBJ      = "export_obj"
	FeatureHighResolution = "high_resolution"
)

// 默认每项功能的代币成本
var defaultFeatureCosts = map[string]int{
	FeatureGeneration:     5,
	FeatureImageTo3D:      20,
	FeatureExportSTL:      2,
	FeatureExportOBJ:      3,
	FeatureHighResolution: 10,
}

// InsufficientTokensError 表示用户代币余额不足
type InsufficientTokensError struct {
	UserID  string
	Feature string
	Cost    int
	Balance int
}

func (e InsufficientTokensError) Error() string {
	return fmt.Sprintf("insufficient tokens: user=%s feature=%s cost=%d balance=%d",
		e.UserID, e.Feature, e.Cost, e.Balance)
}

// Gate 代币计费闸门
// 免费生成额度优先消耗，用尽后才扣代币余额；
// 未注册的匿名会话用户不在计费范围内，直接放行
type Gate struct {
	users         repository.UserRepository
	ledger        repository.TokenTransactionRepository
	tx            repository.Transactor
	costs         map[string]int
	freeAllowance int
}

// NewGate 创建计费闸门
// tx 非 nil 时扣费与流水落库在同一事务中完成
func NewGate(users repository.UserRepository, ledger repository.TokenTransactionRepository, tx repository.Transactor, costs map[string]int, freeAllowance int) *Gate {
	merged := make(map[string]int, len(defaultFeatureCosts))
	for feature, cost := range defaultFeatureCosts {
		merged[feature] = cost
	}
	for feature, cost := range costs {
		merged[feature] = cost
	}
	return &Gate{
		users:         users,
		ledger:        ledger,
		tx:            tx,
		costs:         merged,
		freeAllowance: freeAllowance,
	}
}

// Cost 返回功能项的代币成本，未登记的功能项成本为 0
func (g *Gate) Cost(feature string) int {
	return g.costs[feature]
}

// CanAfford 判断用户能否负担一次指定功能
func (g *Gate) CanAfford(ctx context.Context, userID, feature string) error {
	cost := g.costs[feature]
	if cost <= 0 {
		return nil
	}

	user, err := g.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 匿名会话用户不计费
			return nil
		}
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load user")
	}

	if feature == FeatureGeneration && user.FreeGenerationsUsed < g.freeAllowance {
		return nil
	}
	if user.TokenBalance < cost {
		return apperrors.ErrInsufficientTokens.WithError(InsufficientTokensError{
			UserID:  userID,
			Feature: feature,
			Cost:    cost,
			Balance: user.TokenBalance,
		})
	}
	return nil
}

// Charge 为一次已完成的功能扣费并记录流水
func (g *Gate) Charge(ctx context.Context, userID, feature string) error {
	cost := g.costs[feature]
	if cost <= 0 {
		return nil
	}

	user, err := g.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load user")
	}

	// 免费额度优先
	if feature == FeatureGeneration && user.FreeGenerationsUsed < g.freeAllowance {
		used, err := g.users.IncrementFreeGenerations(ctx, userID)
		if err != nil {
			return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to consume free generation")
		}
		g.record(ctx, userID, feature, entity.TokenTransactionTypeFree, 0, user.TokenBalance)
		logger.Info(ctx, "free generation consumed", "user_id", userID, "used", used, "allowance", g.freeAllowance)
		return nil
	}

	chargeOp := func(opCtx context.Context) error {
		balance, err := g.users.DeductTokens(opCtx, userID, cost)
		if err != nil {
			return apperrors.ErrInsufficientTokens.WithError(err)
		}
		if g.ledger == nil {
			return nil
		}
		ledgerEntry := &entity.TokenTransaction{
			UserID:  userID,
			Type:    entity.TokenTransactionTypeCharge,
			Feature: feature,
			Amount:  -cost,
			Balance: balance,
		}
		if err := g.ledger.Create(opCtx, ledgerEntry); err != nil {
			return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to record token transaction")
		}
		return nil
	}

	if g.tx != nil {
		err = g.tx.WithTransaction(ctx, chargeOp)
	} else {
		err = chargeOp(ctx)
	}
	if err != nil {
		return err
	}
	metrics.TokensCharged.WithLabelValues(feature).Add(float64(cost))
	return nil
}

// TopUp 充值代币并记录流水
func (g *Gate) TopUp(ctx context.Context, userID string, amount int) (int, error) {
	if amount <= 0 {
		return 0, apperrors.ErrInvalidParam.WithDetail("top up amount must be positive")
	}
	balance, err := g.users.AddTokens(ctx, userID, amount)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to add tokens")
	}
	g.record(ctx, userID, "top_up", entity.TokenTransactionTypeTopUp, amount, balance)
	return balance, nil
}

// record 写流水，失败只记日志不影响主流程
func (g *Gate) record(ctx context.Context, userID, feature string, txType entity.TokenTransactionType, amount, balance int) {
	if g.ledger == nil {
		return
	}
	tx := &entity.TokenTransaction{
		UserID:  userID,
		Type:    txType,
		Feature: feature,
		Amount:  amount,
		Balance: balance,
	}
	if err := g.ledger.Create(ctx, tx); err != nil {
		logger.Warn(ctx, "failed to record token transaction", "user_id", userID, "feature", feature, "error", err.Error())
	}
}
