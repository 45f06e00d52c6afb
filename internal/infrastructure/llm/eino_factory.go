package llm

import (
	"context"
	"fmt"
	"sync"

	"model3d-ai-api/internal/config"
	"model3d-ai-api/pkg/logger"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

// EinoFactory 管理多个 Eino ChatModel 客户端实例
type EinoFactory struct {
	config *config.LLMConfig
	models map[string]model.BaseChatModel
	mu     sync.RWMutex
}

// NewEinoFactory 创建 Eino LLM 工厂
func NewEinoFactory(cfg *config.Config) *EinoFactory {
	return &EinoFactory{
		config: &cfg.LLM,
		models: make(map[string]model.BaseChatModel),
	}
}

// Available 判断是否配置了任何可用的 LLM 提供商
func (f *EinoFactory) Available() bool {
	return len(f.config.Providers) > 0
}

// DefaultProvider 返回默认提供商名称
func (f *EinoFactory) DefaultProvider() string {
	return f.config.DefaultProvider
}

// Get 获取指定名称的 ChatModel
// 名称为空时先取默认提供商，失败后按 fallback_chain 逐个降级
func (f *EinoFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	if name != "" {
		return f.get(ctx, name)
	}

	m, err := f.get(ctx, f.config.DefaultProvider)
	if err == nil {
		return m, nil
	}

	for _, fallback := range f.config.FallbackChain {
		if fallback == f.config.DefaultProvider {
			continue
		}
		fm, ferr := f.get(ctx, fallback)
		if ferr != nil {
			continue
		}
		logger.Warn(ctx, "default llm provider unavailable, using fallback",
			"default", f.config.DefaultProvider, "fallback", fallback, "error", err.Error())
		return fm, nil
	}
	return nil, err
}

// get 按名称惰性构建并缓存客户端
func (f *EinoFactory) get(ctx context.Context, name string) (model.BaseChatModel, error) {
	f.mu.RLock()
	m, ok := f.models[name]
	f.mu.RUnlock()
	if ok {
		return m, nil
	}

	// 惰性加载
	f.mu.Lock()
	defer f.mu.Unlock()

	// 再次检查防止竞态
	if m, ok = f.models[name]; ok {
		return m, nil
	}

	providerCfg, ok := f.config.Providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %s not found in LLM config", name)
	}

	// 使用 Eino 的 OpenAI 适配器
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      providerCfg.APIKey,
		BaseURL:     providerCfg.BaseURL,
		Model:       providerCfg.Model,
		MaxTokens:   &providerCfg.MaxTokens,
		Temperature: ptrFloat32(float32(providerCfg.Temperature)),
		Timeout:     providerCfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create eino chat model for %s: %w", name, err)
	}

	f.models[name] = chatModel
	return chatModel, nil
}

// Default 返回默认 ChatModel
func (f *EinoFactory) Default(ctx context.Context) (model.BaseChatModel, error) {
	return f.Get(ctx, "")
}

func ptrFloat32(f float32) *float32 {
	return &f
}
