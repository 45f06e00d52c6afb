// Package search 提供外部搜索与页面抓取能力
package search

import (
	"context"
	"io"
	"net/http"
	"time"

	"model3d-ai-api/internal/config"
	"model3d-ai-api/pkg/logger"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// HTTPFetcher 网页抓取器
// 超时与非 200 状态一律按空结果处理，不向上传播错误
type HTTPFetcher struct {
	httpClient *http.Client
}

// NewHTTPFetcher 创建网页抓取器
func NewHTTPFetcher(cfg *config.SearchConfig) *HTTPFetcher {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPFetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch 抓取页面 HTML
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", nil
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		logger.Debug(ctx, "page fetch failed", "url", pageURL, "error", err.Error())
		return "", nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil
	}
	return string(body), nil
}
