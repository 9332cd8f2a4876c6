// Package source wraps the extraction strategies with caching and
// in-flight request collapsing. A source client never returns an error:
// every failure mode inside a source degrades to an empty result set so
// one broken directory cannot sink a whole search.
package source

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/RafalekS/MCP-Search/internal/cache"
	"github.com/RafalekS/MCP-Search/internal/extract"
	"github.com/RafalekS/MCP-Search/internal/infrastructure/logging"
	"github.com/RafalekS/MCP-Search/internal/infrastructure/monitoring"
	"github.com/RafalekS/MCP-Search/internal/shared/types"
	"github.com/RafalekS/MCP-Search/internal/shared/utils"
)

// Client resolves one (source, query) pair to records: cache first,
// then the strategy registered for the source's retrieval mode.
type Client struct {
	store    *cache.Store
	registry *extract.Registry
	flights  singleflight.Group
	log      *logging.Logger
	metrics  *monitoring.Metrics
}

// New creates a source client. Store and registry are required; log and
// metrics may be nil.
func New(store *cache.Store, registry *extract.Registry, log *logging.Logger, metrics *monitoring.Metrics) *Client {
	if log == nil {
		log = logging.NewNop()
	}
	return &Client{
		store:    store,
		registry: registry,
		log:      log,
		metrics:  metrics,
	}
}

// Search returns records for a query against one source, serving from
// cache when a fresh entry exists.
func (c *Client) Search(ctx context.Context, src types.SourceConfig, query string) []types.ResultRecord {
	if records, ok := c.store.Get(src.ID, query); ok {
		if c.metrics != nil {
			c.metrics.RecordCacheHit(src.ID)
		}
		c.log.Debug("cache hit",
			zap.String("source", src.ID),
			zap.Int("records", len(records)))
		return records
	}
	if c.metrics != nil {
		c.metrics.RecordCacheMiss(src.ID)
	}
	return c.SearchLive(ctx, src, query)
}

// SearchLive bypasses the cache read and extracts fresh records, still
// writing the outcome through to the cache. Used by the retry pass so a
// stale empty entry cannot shadow a recovered source.
func (c *Client) SearchLive(ctx context.Context, src types.SourceConfig, query string) []types.ResultRecord {
	key := utils.Fingerprint(src.ID, query)

	// Collapse concurrent identical extractions into one flight.
	result, _, _ := c.flights.Do(key, func() (any, error) {
		return c.extract(ctx, src, query), nil
	})

	records, _ := result.([]types.ResultRecord)
	return records
}

func (c *Client) extract(ctx context.Context, src types.SourceConfig, query string) []types.ResultRecord {
	strategy, ok := c.registry.ForMode(src.Mode)
	if !ok {
		c.log.Warn("no strategy for retrieval mode",
			zap.String("source", src.ID),
			zap.String("mode", string(src.Mode)))
		if c.metrics != nil {
			c.metrics.RecordSource(src.ID, "unknown_mode")
		}
		return nil
	}

	records := types.FilterValid(strategy.Extract(ctx, src, query))

	// Empty sets are cached too: a source that legitimately has no
	// matches should not be re-fetched on every request.
	c.store.Set(src.ID, query, records)

	outcome := "ok"
	if len(records) == 0 {
		outcome = "empty"
	}
	if c.metrics != nil {
		c.metrics.RecordSource(src.ID, outcome)
	}
	c.log.Debug("source searched",
		zap.String("source", src.ID),
		zap.String("mode", string(src.Mode)),
		zap.String("query_key", utils.ShortFingerprint(utils.Fingerprint(src.ID, query))),
		zap.Int("records", len(records)))
	return records
}

// Invalidate drops the cached entry for one (source, query) pair.
func (c *Client) Invalidate(src types.SourceConfig, query string) {
	c.store.Invalidate(src.ID, query)
}
