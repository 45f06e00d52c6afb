// Package template 维护 OpenSCAD 模板目录
package template

import (
	"context"
)

// SearchResult 搜索结果条目
type SearchResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// SearchProvider 外部搜索提供方
// 未配置搜索服务时实现方应返回固定的文档站点列表
type SearchProvider interface {
	// Search 按关键词搜索网页
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// PageFetcher 网页抓取器
// 超时或非 200 状态返回空串，不作为错误传播
type PageFetcher interface {
	// Fetch 抓取页面 HTML
	Fetch(ctx context.Context, url string) (string, error)
}
