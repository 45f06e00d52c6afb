// Package template 维护 OpenSCAD 模板目录
package template

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/singleflight"

	"model3d-ai-api/internal/domain/entity"
	"model3d-ai-api/pkg/logger"
	"model3d-ai-api/pkg/metrics"
)

// OpenSCAD 代码判定的关键词集合
var cadKeywords = []string{
	"module", "function", "cube", "sphere", "cylinder",
	"polyhedron", "union", "difference", "intersection",
}

// OpenSCAD 代码判定的结构句式
var cadSyntaxRes = []*regexp.Regexp{
	regexp.MustCompile(`module\s+\w+\s*\(`),
	regexp.MustCompile(`function\s+\w+\s*\(`),
	regexp.MustCompile(`cube\s*\(\s*\[`),
	regexp.MustCompile(`sphere\s*\(\s*r\s*=`),
	regexp.MustCompile(`cylinder\s*\(\s*h\s*=`),
}

// Catalog 模板目录，按规范化查询串缓存外部获取的模板
// 缓存只增不减，进程生命周期内同一查询最多发起一次外部检索；
// 并发的同键查询由 singleflight 合并为一次
type Catalog struct {
	search        SearchProvider
	fetcher       PageFetcher
	fallbackSites []string
	maxResults    int

	mu    sync.RWMutex
	cache map[string]entity.Template
	group singleflight.Group
}

// NewCatalog 创建模板目录
func NewCatalog(search SearchProvider, fetcher PageFetcher, fallbackSites []string, maxResults int) *Catalog {
	if maxResults <= 0 {
		maxResults = 3
	}
	return &Catalog{
		search:        search,
		fetcher:       fetcher,
		fallbackSites: fallbackSites,
		maxResults:    maxResults,
		cache:         make(map[string]entity.Template),
	}
}

// Find 查找查询串对应的模板
// 未命中返回空模板，这是正常结果而非错误；未命中结论同样被缓存
func (c *Catalog) Find(ctx context.Context, query string) entity.Template {
	key := strings.ToLower(strings.TrimSpace(query))

	c.mu.RLock()
	cached, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		metrics.TemplateCacheHits.Inc()
		return cached
	}
	metrics.TemplateCacheMisses.Inc()

	found, _, _ := c.group.Do(key, func() (interface{}, error) {
		// singleflight 合并窗口之外可能已有结果落缓存
		c.mu.RLock()
		cached, ok := c.cache[key]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}

		tmpl := c.lookup(ctx, key)

		c.mu.Lock()
		c.cache[key] = tmpl
		c.mu.Unlock()

		return tmpl, nil
	})

	return found.(entity.Template)
}

// lookup 执行一次完整的外部检索
func (c *Catalog) lookup(ctx context.Context, query string) entity.Template {
	log := logger.FromContext(ctx)
	log.Info("searching for template", "query", query)

	searchQuery := "openscad " + query + " template code example"
	results, err := c.search.Search(ctx, searchQuery)
	if err != nil {
		log.Warn("template search failed", "query", query, "error", err.Error())
	}

	if len(results) > c.maxResults {
		results = results[:c.maxResults]
	}
	for _, result := range results {
		if result.URL == "" {
			continue
		}
		if tmpl, ok := c.extractFromPage(ctx, result.URL, query); ok {
			return tmpl
		}
	}

	// 搜索无果时退回已知的模板站点
	for _, site := range c.fallbackSites {
		if tmpl, ok := c.extractFromPage(ctx, site, query); ok {
			return tmpl
		}
	}

	log.Warn("no template found", "query", query)
	return entity.Template{}
}

// extractFromPage 抓取页面并从 <pre>/<code> 块中提取匹配的 OpenSCAD 代码
func (c *Catalog) extractFromPage(ctx context.Context, url, query string) (entity.Template, bool) {
	html, err := c.fetcher.Fetch(ctx, url)
	if err != nil || html == "" {
		return entity.Template{}, false
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return entity.Template{}, false
	}

	var code string
	doc.Find("pre, code").EachWithBreak(func(_ int, block *goquery.Selection) bool {
		text := block.Text()
		if isCADCode(text) && codeMatchesQuery(text, query) {
			code = strings.TrimSpace(text)
			return false
		}
		return true
	})
	if code == "" {
		return entity.Template{}, false
	}

	logger.FromContext(ctx).Info("template found", "url", url, "query", query)
	return entity.Template{
		Code:       code,
		Source:     entity.TemplateSource{URL: url},
		Parameters: ExtractParameters(code),
	}, true
}

// isCADCode 判断文本是否为 OpenSCAD 代码
// 命中至少两个关键词，或匹配任一结构句式
func isCADCode(text string) bool {
	lower := strings.ToLower(text)

	count := 0
	for _, keyword := range cadKeywords {
		if strings.Contains(lower, keyword) {
			count++
		}
	}
	if count >= 2 {
		return true
	}

	for _, re := range cadSyntaxRes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// codeMatchesQuery 查询词与代码的重叠率达到一半即视为相关
func codeMatchesQuery(code, query string) bool {
	keywords := strings.Fields(strings.ToLower(query))
	if len(keywords) == 0 {
		return false
	}
	lower := strings.ToLower(code)

	matches := 0
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			matches++
		}
	}
	return float64(matches) >= float64(len(keywords))/2
}
