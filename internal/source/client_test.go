package source

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RafalekS/MCP-Search/internal/cache"
	"github.com/RafalekS/MCP-Search/internal/extract"
	"github.com/RafalekS/MCP-Search/internal/fetch"
	"github.com/RafalekS/MCP-Search/internal/shared/types"
)

// countingFetcher serves one JSON payload and counts requests.
type countingFetcher struct {
	body  []byte
	calls atomic.Int64
	delay time.Duration
}

func (f *countingFetcher) Get(context.Context, string, map[string]string) (*fetch.Response, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return &fetch.Response{Body: f.body, StatusCode: 200}, nil
}

var apiSrc = types.SourceConfig{
	ID: "api-src", Name: "API Source", Mode: types.ModeAPI,
	URL: "https://api.example.com",
}

func newClient(f *countingFetcher, ttl time.Duration) *Client {
	registry := extract.NewRegistry(extract.Deps{Fetcher: f})
	return New(cache.New(ttl), registry, nil, nil)
}

func TestSearchCachesSecondCall(t *testing.T) {
	f := &countingFetcher{body: []byte(`[{"name":"Foo","url":"https://foo.dev"}]`)}
	c := newClient(f, time.Hour)

	first := c.Search(context.Background(), apiSrc, "foo")
	require.Len(t, first, 1)

	second := c.Search(context.Background(), apiSrc, "foo")
	require.Len(t, second, 1)
	assert.Equal(t, int64(1), f.calls.Load())
}

func TestSearchCachesEmptyResult(t *testing.T) {
	f := &countingFetcher{body: []byte(`[]`)}
	c := newClient(f, time.Hour)

	assert.Empty(t, c.Search(context.Background(), apiSrc, "nothing"))
	assert.Empty(t, c.Search(context.Background(), apiSrc, "nothing"))
	assert.Equal(t, int64(1), f.calls.Load())
}

func TestSearchLiveBypassesCacheRead(t *testing.T) {
	f := &countingFetcher{body: []byte(`[{"name":"Foo","url":"https://foo.dev"}]`)}
	c := newClient(f, time.Hour)

	c.Search(context.Background(), apiSrc, "foo")
	c.SearchLive(context.Background(), apiSrc, "foo")
	assert.Equal(t, int64(2), f.calls.Load())

	// The live result was written through and serves the next read.
	c.Search(context.Background(), apiSrc, "foo")
	assert.Equal(t, int64(2), f.calls.Load())
}

func TestSearchUnknownModeIsEmpty(t *testing.T) {
	f := &countingFetcher{body: []byte(`[]`)}
	c := newClient(f, time.Hour)

	src := apiSrc
	src.Mode = types.RetrievalMode("bogus")
	assert.Empty(t, c.Search(context.Background(), src, "foo"))
	assert.Equal(t, int64(0), f.calls.Load())
}

func TestConcurrentIdenticalSearchesCollapse(t *testing.T) {
	f := &countingFetcher{
		body:  []byte(`[{"name":"Foo","url":"https://foo.dev"}]`),
		delay: 50 * time.Millisecond,
	}
	c := newClient(f, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			records := c.SearchLive(context.Background(), apiSrc, "foo")
			assert.Len(t, records, 1)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1), f.calls.Load())
}

func TestInvalidateForcesRefetch(t *testing.T) {
	f := &countingFetcher{body: []byte(`[{"name":"Foo","url":"https://foo.dev"}]`)}
	c := newClient(f, time.Hour)

	c.Search(context.Background(), apiSrc, "foo")
	c.Invalidate(apiSrc, "foo")
	c.Search(context.Background(), apiSrc, "foo")
	assert.Equal(t, int64(2), f.calls.Load())
}
