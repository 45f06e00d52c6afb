// Package wire 提供依赖注入配置
package wire

import (
	"github.com/gin-gonic/gin"

	"model3d-ai-api/internal/application/template"
	"model3d-ai-api/internal/config"
	"model3d-ai-api/internal/domain/entity"
	"model3d-ai-api/internal/infrastructure/persistence/postgres"
	"model3d-ai-api/internal/infrastructure/persistence/redis"
	"model3d-ai-api/internal/infrastructure/search"
	"model3d-ai-api/internal/interfaces/http/middleware"
)

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.Postgres.AutoMigrate {
		if err := client.AutoMigrate(
			&entity.User{},
			&entity.ModelArtifact{},
			&entity.TokenTransaction{},
		); err != nil {
			client.Close()
			return nil, nil, err
		}
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideAuthConfig 提供认证配置
func ProvideAuthConfig(cfg *config.Config) middleware.AuthConfig {
	return middleware.AuthConfig{
		Secret:    cfg.Security.JWT.Secret,
		Issuer:    cfg.Security.JWT.Issuer,
		SkipPaths: middleware.DefaultSkipPaths,
		Enabled:   true,
	}
}

// ProvideRateLimitMiddleware 提供限流中间件
func ProvideRateLimitMiddleware(cfg *config.Config, redisClient *redis.Client) gin.HandlerFunc {
	return middleware.RateLimit(middleware.RateLimitConfig{
		Enabled:           cfg.Security.RateLimit.Enabled,
		RequestsPerSecond: cfg.Security.RateLimit.RequestsPerSecond,
		Burst:             cfg.Security.RateLimit.Burst,
	}, redis.NewRateLimiter(redisClient))
}

// ProvideTemplateCatalog 提供模板目录
func ProvideTemplateCatalog(cfg *config.Config, provider *search.SerpProvider, fetcher *search.HTTPFetcher) *template.Catalog {
	return template.NewCatalog(provider, fetcher, cfg.Search.FallbackSites, cfg.Search.MaxResults)
}

// ProvideSerpProvider 提供模板搜索后端
func ProvideSerpProvider(cfg *config.Config) *search.SerpProvider {
	return search.NewSerpProvider(&cfg.Search)
}

// ProvideHTTPFetcher 提供网页抓取器
func ProvideHTTPFetcher(cfg *config.Config) *search.HTTPFetcher {
	return search.NewHTTPFetcher(&cfg.Search)
}
