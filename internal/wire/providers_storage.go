// Package wire 提供依赖注入配置
package wire

import (
	"model3d-ai-api/internal/application/quota"
	"model3d-ai-api/internal/config"
	"model3d-ai-api/internal/domain/repository"
	"model3d-ai-api/internal/infrastructure/storage"
	"model3d-ai-api/internal/interfaces/http/handler"
)

// ProvideRenderer 提供 OpenSCAD 渲染器
func ProvideRenderer(cfg *config.Config) *storage.Renderer {
	return storage.NewRenderer(&cfg.Storage)
}

// ProvideMediaStore 提供模型文件存储
func ProvideMediaStore(cfg *config.Config, renderer *storage.Renderer, artifacts repository.ModelArtifactRepository) (*storage.MediaStore, error) {
	return storage.NewMediaStore(&cfg.Storage, renderer, artifacts)
}

// ProvideQuotaGate 提供代币计费闸门
func ProvideQuotaGate(cfg *config.Config, users repository.UserRepository, ledger repository.TokenTransactionRepository, tx repository.Transactor) *quota.Gate {
	return quota.NewGate(users, ledger, tx, cfg.Billing.FeatureCosts, cfg.Billing.FreeGenerations)
}

// ProvideTokenHandler 提供代币账户处理器
func ProvideTokenHandler(cfg *config.Config, users repository.UserRepository, ledger repository.TokenTransactionRepository, gate *quota.Gate) *handler.TokenHandler {
	return handler.NewTokenHandler(users, ledger, gate, cfg.Billing.FreeGenerations)
}
