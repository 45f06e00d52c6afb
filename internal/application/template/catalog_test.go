package template

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gearPage = `<html><body>
<p>Here is a parametric gear you can customize.</p>
<pre>
// Parametric gear
teeth = 12;
thickness = 5;

module gear(teeth, thickness) {
    cylinder(h = thickness, r = teeth);
}

gear(teeth, thickness);
</pre>
</body></html>`

type fakeSearch struct {
	calls   atomic.Int64
	results []SearchResult
	err     error
}

func (f *fakeSearch) Search(ctx context.Context, query string) ([]SearchResult, error) {
	f.calls.Add(1)
	return f.results, f.err
}

type fakeFetcher struct {
	pages map[string]string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	html, ok := f.pages[url]
	if !ok {
		return "", nil
	}
	return html, nil
}

func TestCatalogFindExtractsTemplate(t *testing.T) {
	search := &fakeSearch{results: []SearchResult{{Title: "Gear", URL: "https://example.com/gear"}}}
	fetcher := &fakeFetcher{pages: map[string]string{"https://example.com/gear": gearPage}}
	catalog := NewCatalog(search, fetcher, nil, 3)

	tmpl := catalog.Find(context.Background(), "gear")

	require.False(t, tmpl.IsEmpty())
	assert.Contains(t, tmpl.Code, "module gear")
	assert.NotContains(t, tmpl.Code, "parametric gear you can customize")
	assert.Equal(t, "https://example.com/gear", tmpl.Source.URL)

	names := make([]string, 0, len(tmpl.Parameters))
	for _, spec := range tmpl.Parameters {
		names = append(names, spec.Name)
	}
	assert.Contains(t, names, "teeth")
	assert.Contains(t, names, "thickness")
}

func TestCatalogFindCachesResult(t *testing.T) {
	search := &fakeSearch{results: []SearchResult{{URL: "https://example.com/gear"}}}
	fetcher := &fakeFetcher{pages: map[string]string{"https://example.com/gear": gearPage}}
	catalog := NewCatalog(search, fetcher, nil, 3)

	first := catalog.Find(context.Background(), "gear")
	second := catalog.Find(context.Background(), "Gear ")

	// 规范化后的同一查询只触发一次外部检索
	assert.Equal(t, int64(1), search.calls.Load())
	assert.Equal(t, first.Code, second.Code)
}

func TestCatalogFindCachesMiss(t *testing.T) {
	search := &fakeSearch{err: errors.New("search backend down")}
	fetcher := &fakeFetcher{}
	catalog := NewCatalog(search, fetcher, nil, 3)

	tmpl := catalog.Find(context.Background(), "gear")
	assert.True(t, tmpl.IsEmpty())

	// 未命中结论同样被缓存
	catalog.Find(context.Background(), "gear")
	assert.Equal(t, int64(1), search.calls.Load())
}

func TestCatalogFindFallbackSites(t *testing.T) {
	search := &fakeSearch{}
	fetcher := &fakeFetcher{pages: map[string]string{"https://docs.example.com": gearPage}}
	catalog := NewCatalog(search, fetcher, []string{"https://docs.example.com"}, 3)

	tmpl := catalog.Find(context.Background(), "gear")
	require.False(t, tmpl.IsEmpty())
	assert.Equal(t, "https://docs.example.com", tmpl.Source.URL)
}

func TestCatalogFindRespectsMaxResults(t *testing.T) {
	search := &fakeSearch{results: []SearchResult{
		{URL: "https://a.example.com"},
		{URL: "https://b.example.com"},
		{URL: "https://c.example.com"},
	}}
	fetched := make(map[string]bool)
	var mu sync.Mutex
	fetcher := pageFetcherFunc(func(ctx context.Context, url string) (string, error) {
		mu.Lock()
		fetched[url] = true
		mu.Unlock()
		return "", nil
	})
	catalog := NewCatalog(search, fetcher, nil, 2)

	catalog.Find(context.Background(), "gear")

	assert.Len(t, fetched, 2)
	assert.NotContains(t, fetched, "https://c.example.com")
}

func TestCatalogFindConcurrentSingleLookup(t *testing.T) {
	search := &fakeSearch{results: []SearchResult{{URL: "https://example.com/gear"}}}
	fetcher := &fakeFetcher{pages: map[string]string{"https://example.com/gear": gearPage}}
	catalog := NewCatalog(search, fetcher, nil, 3)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tmpl := catalog.Find(context.Background(), "gear")
			assert.False(t, tmpl.IsEmpty())
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), search.calls.Load())
}

type pageFetcherFunc func(ctx context.Context, url string) (string, error)

func (f pageFetcherFunc) Fetch(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}
