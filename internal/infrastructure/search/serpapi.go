// Package search 提供外部搜索与页面抓取能力
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"model3d-ai-api/internal/application/template"
	"model3d-ai-api/internal/config"
	"model3d-ai-api/pkg/logger"
	"model3d-ai-api/pkg/metrics"
)

const serpAPIEndpoint = "https://serpapi.com/search"

// 未配置搜索服务时使用的固定文档站点
var fallbackResults = []template.SearchResult{
	{Title: "OpenSCAD Examples", URL: "https://www.openscad.org/examples.html"},
	{Title: "OpenSCAD Cheatsheet", URL: "https://www.openscad.org/cheatsheet/"},
	{Title: "OpenSCAD User Manual", URL: "https://en.wikibooks.org/wiki/OpenSCAD_User_Manual"},
}

// SerpProvider 基于 SerpAPI 的搜索提供方
// 未配置 API key 或请求失败时退回固定文档站点列表
type SerpProvider struct {
	apiKey     string
	httpClient *http.Client
}

type serpResponse struct {
	OrganicResults []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	} `json:"organic_results"`
}

// NewSerpProvider 创建搜索提供方
func NewSerpProvider(cfg *config.SearchConfig) *SerpProvider {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SerpProvider{
		apiKey: cfg.SerpAPIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Search 按关键词搜索网页
func (p *SerpProvider) Search(ctx context.Context, query string) ([]template.SearchResult, error) {
	if p.apiKey == "" {
		logger.Debug(ctx, "no search api key configured, using fallback results")
		return fallbackResults, nil
	}

	start := time.Now()
	results, err := p.doSearch(ctx, query)
	metrics.TemplateSearchDuration.WithLabelValues("serpapi").Observe(time.Since(start).Seconds())
	if err != nil {
		// 搜索失败退回固定站点，调用方不感知
		logger.Warn(ctx, "search request failed, using fallback results", "query", query, "error", err.Error())
		return fallbackResults, nil
	}
	return results, nil
}

func (p *SerpProvider) doSearch(ctx context.Context, query string) ([]template.SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("api_key", p.apiKey)
	params.Set("engine", "google")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serpAPIEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request failed: status=%d", resp.StatusCode)
	}

	var data serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	results := make([]template.SearchResult, 0, len(data.OrganicResults))
	for _, r := range data.OrganicResults {
		results = append(results, template.SearchResult{Title: r.Title, URL: r.Link})
	}
	return results, nil
}
