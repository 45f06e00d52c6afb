//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"model3d-ai-api/internal/application/dialog"
	"model3d-ai-api/internal/application/quota"
	"model3d-ai-api/internal/application/synthesis"
	"model3d-ai-api/internal/application/template"
	"model3d-ai-api/internal/config"
	"model3d-ai-api/internal/domain/repository"
	"model3d-ai-api/internal/infrastructure/llm"
	"model3d-ai-api/internal/infrastructure/persistence/postgres"
	"model3d-ai-api/internal/infrastructure/search"
	"model3d-ai-api/internal/infrastructure/storage"
	"model3d-ai-api/internal/interfaces/http/handler"
	"model3d-ai-api/internal/interfaces/http/router"
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		SearchSet,
		LLMSet,
		StorageSet,
		DialogSet,
		RouterSet,
	)
	return nil, nil, nil
}

// RepoSet PostgreSQL 提供者集合
var RepoSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewUserRepository,
	postgres.NewModelArtifactRepository,
	postgres.NewTokenTransactionRepository,
	// 接口绑定
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.UserRepository), new(*postgres.UserRepository)),
	wire.Bind(new(repository.ModelArtifactRepository), new(*postgres.ModelArtifactRepository)),
	wire.Bind(new(repository.TokenTransactionRepository), new(*postgres.TokenTransactionRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	ProvideRateLimitMiddleware,
)

// SearchSet 模板搜索提供者集合
var SearchSet = wire.NewSet(
	ProvideSerpProvider,
	ProvideHTTPFetcher,
	ProvideTemplateCatalog,
	wire.Bind(new(template.SearchProvider), new(*search.SerpProvider)),
	wire.Bind(new(template.PageFetcher), new(*search.HTTPFetcher)),
)

// LLMSet LLM 提供者集合
var LLMSet = wire.NewSet(
	llm.NewEinoFactory,
	llm.NewCompleter,
	wire.Bind(new(synthesis.Completer), new(*llm.Completer)),
	wire.Bind(new(dialog.Responder), new(*llm.Completer)),
)

// StorageSet 模型文件存储提供者集合
var StorageSet = wire.NewSet(
	ProvideRenderer,
	ProvideMediaStore,
	wire.Bind(new(synthesis.ArtifactStore), new(*storage.MediaStore)),
)

// DialogSet 对话与合成提供者集合
var DialogSet = wire.NewSet(
	dialog.NewInMemorySessionStore,
	synthesis.NewGenerator,
	ProvideQuotaGate,
	quota.NewGenerationGate,
	dialog.NewEngine,
	wire.Bind(new(dialog.SessionStore), new(*dialog.InMemorySessionStore)),
	wire.Bind(new(dialog.Synthesizer), new(*synthesis.Generator)),
	wire.Bind(new(dialog.TemplateFinder), new(*template.Catalog)),
	wire.Bind(new(synthesis.TemplateFinder), new(*template.Catalog)),
	wire.Bind(new(dialog.BillingGate), new(*quota.GenerationGate)),
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideAuthConfig,
	handler.NewHealthHandler,
	handler.NewAuthHandler,
	handler.NewChatHandler,
	handler.NewModelHandler,
	ProvideTokenHandler,
	wire.Struct(new(router.RouterHandlers), "*"),
	router.NewWithDeps,
)
