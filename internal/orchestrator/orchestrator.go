// Package orchestrator fans a query out across a category's sources with
// bounded parallelism, retries sources that came back empty once, and
// merges whatever arrived. Partial results are the normal case, not an
// error: a search fails only when every source fails.
package orchestrator

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/RafalekS/MCP-Search/internal/infrastructure/logging"
	"github.com/RafalekS/MCP-Search/internal/infrastructure/monitoring"
	"github.com/RafalekS/MCP-Search/internal/shared/types"
	"github.com/RafalekS/MCP-Search/internal/source"
)

const (
	defaultWorkers = 4
	defaultBackoff = 2 * time.Second
)

// Config bounds the fan-out.
type Config struct {
	// Workers caps concurrent source searches.
	Workers int
	// RetryBackoff is the pause before the single retry pass.
	RetryBackoff time.Duration
}

// Outcome reports how one source fared within a search.
type Outcome struct {
	SourceID string `json:"source_id"`
	Records  int    `json:"records"`
	Retried  bool   `json:"retried"`
}

// Result is one completed search across a source set. Records holds the
// deduplicated union; BySource keeps each source's own records for
// callers that care where a record came from.
type Result struct {
	TraceID  string                          `json:"trace_id"`
	Query    string                          `json:"query"`
	Category string                          `json:"category,omitempty"`
	Records  []types.ResultRecord            `json:"records"`
	BySource map[string][]types.ResultRecord `json:"results_by_source"`
	Outcomes []Outcome                       `json:"sources"`
	Elapsed  time.Duration                   `json:"-"`
}

// Orchestrator runs searches over a shared worker pool.
type Orchestrator struct {
	client  *source.Client
	pool    *ants.Pool
	backoff time.Duration
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// New creates an orchestrator. Log and metrics may be nil.
func New(client *source.Client, cfg Config, log *logging.Logger, metrics *monitoring.Metrics) (*Orchestrator, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = defaultBackoff
	}
	if log == nil {
		log = logging.NewNop()
	}

	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		client:  client,
		pool:    pool,
		backoff: cfg.RetryBackoff,
		log:     log,
		metrics: metrics,
	}, nil
}

// Close releases the worker pool.
func (o *Orchestrator) Close() {
	o.pool.Release()
}

// Search fans the query out across sources, retrying empty sources once
// with the cache bypassed. Sources keep their input order in the merged
// output.
func (o *Orchestrator) Search(ctx context.Context, category string, sources []types.SourceConfig, query string) *Result {
	start := time.Now()
	traceID := uuid.NewString()
	log := o.log.With(
		zap.String("trace_id", traceID),
		zap.String("category", category),
		zap.Int("sources", len(sources)))

	log.Info("search started", zap.String("query", query))

	perSource := o.fanOut(ctx, sources, query, false)

	var pending []int
	for i, records := range perSource {
		if len(records) == 0 {
			pending = append(pending, i)
		}
	}

	retried := make(map[int]bool, len(pending))
	if len(pending) > 0 && sleepCtx(ctx, o.backoff) {
		retrySources := make([]types.SourceConfig, 0, len(pending))
		for _, i := range pending {
			retrySources = append(retrySources, sources[i])
			retried[i] = true
		}
		log.Info("retrying empty sources", zap.Int("count", len(pending)))

		retryResults := o.fanOut(ctx, retrySources, query, true)
		for j, i := range pending {
			perSource[i] = retryResults[j]
		}
		if o.metrics != nil {
			o.metrics.RecordRetries(len(pending))
		}
	}

	result := &Result{
		TraceID:  traceID,
		Query:    query,
		Category: category,
		BySource: make(map[string][]types.ResultRecord, len(sources)),
		Outcomes: make([]Outcome, 0, len(sources)),
	}

	seen := make(map[string]bool)
	empty := 0
	for i, records := range perSource {
		result.Outcomes = append(result.Outcomes, Outcome{
			SourceID: sources[i].ID,
			Records:  len(records),
			Retried:  retried[i],
		})
		if len(records) == 0 {
			empty++
			continue
		}
		labeled := make([]types.ResultRecord, 0, len(records))
		for _, rec := range records {
			if category != "" {
				rec.Category = category
			}
			labeled = append(labeled, rec)
			key := mergeKey(rec)
			if seen[key] {
				continue
			}
			seen[key] = true
			result.Records = append(result.Records, rec)
		}
		result.BySource[sources[i].ID] = labeled
	}

	result.Elapsed = time.Since(start)
	if o.metrics != nil {
		o.metrics.RecordSearch(category, searchOutcome(len(result.Records), empty))
	}
	log.Info("search finished",
		zap.Int("records", len(result.Records)),
		zap.Int("empty_sources", empty),
		zap.Duration("elapsed", result.Elapsed))
	return result
}

// fanOut runs one pass over the sources through the shared pool. The
// live flag bypasses cache reads, used by the retry pass.
func (o *Orchestrator) fanOut(ctx context.Context, sources []types.SourceConfig, query string, live bool) [][]types.ResultRecord {
	results := make([][]types.ResultRecord, len(sources))
	var wg sync.WaitGroup

	for i := range sources {
		i := i
		wg.Add(1)
		task := func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			if live {
				results[i] = o.client.SearchLive(ctx, sources[i], query)
			} else {
				results[i] = o.client.Search(ctx, sources[i], query)
			}
		}
		// Submit fails only when the pool is released; run inline then
		// so an in-flight search still completes.
		if err := o.pool.Submit(task); err != nil {
			task()
		}
	}

	wg.Wait()
	return results
}

// mergeKey identifies a record across sources for cross-source
// deduplication. The repository link is the strongest identity.
func mergeKey(rec types.ResultRecord) string {
	if rec.GithubURL != "" {
		return strings.ToLower(strings.TrimRight(rec.GithubURL, "/"))
	}
	if rec.URL != "" {
		return strings.ToLower(strings.TrimRight(rec.URL, "/"))
	}
	return strings.ToLower(rec.Name) + "|" + rec.Source
}

func searchOutcome(records, empty int) string {
	switch {
	case records == 0:
		return "empty"
	case empty > 0:
		return "partial"
	default:
		return "ok"
	}
}

// sleepCtx waits for d unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
