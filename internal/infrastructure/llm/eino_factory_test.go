package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model3d-ai-api/internal/config"
)

func newTestFactory(llmCfg config.LLMConfig) *EinoFactory {
	return NewEinoFactory(&config.Config{LLM: llmCfg})
}

func testProvider(model string) config.ProviderConfig {
	return config.ProviderConfig{
		APIKey:      "test-key",
		BaseURL:     "http://127.0.0.1:1/v1",
		Model:       model,
		MaxTokens:   64,
		Temperature: 0.2,
		Timeout:     time.Second,
	}
}

func TestAvailable(t *testing.T) {
	assert.False(t, newTestFactory(config.LLMConfig{}).Available())

	f := newTestFactory(config.LLMConfig{
		Providers: map[string]config.ProviderConfig{"openai": testProvider("gpt-4o-mini")},
	})
	assert.True(t, f.Available())
}

func TestGetResolvesDefaultProvider(t *testing.T) {
	f := newTestFactory(config.LLMConfig{
		DefaultProvider: "openai",
		Providers:       map[string]config.ProviderConfig{"openai": testProvider("gpt-4o-mini")},
	})

	m, err := f.Get(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestGetFallsBackWhenDefaultMissing(t *testing.T) {
	f := newTestFactory(config.LLMConfig{
		DefaultProvider: "primary",
		FallbackChain:   []string{"primary", "secondary"},
		Providers:       map[string]config.ProviderConfig{"secondary": testProvider("backup-model")},
	})

	m, err := f.Get(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestGetReportsDefaultErrorWhenChainExhausted(t *testing.T) {
	f := newTestFactory(config.LLMConfig{
		DefaultProvider: "primary",
		FallbackChain:   []string{"secondary"},
	})

	_, err := f.Get(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "primary")
}

func TestGetUnknownProviderErrors(t *testing.T) {
	f := newTestFactory(config.LLMConfig{
		DefaultProvider: "openai",
		Providers:       map[string]config.ProviderConfig{"openai": testProvider("gpt-4o-mini")},
	})

	_, err := f.Get(context.Background(), "missing")
	assert.Error(t, err)
}
