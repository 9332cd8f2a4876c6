// Package validate probes configured sources for operational health. A
// probe run answers three questions in order: is the endpoint reachable,
// does a search return anything, and do returned records parse into
// usable fields.
package validate

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/RafalekS/MCP-Search/internal/extract"
	"github.com/RafalekS/MCP-Search/internal/fetch"
	"github.com/RafalekS/MCP-Search/internal/infrastructure/logging"
	"github.com/RafalekS/MCP-Search/internal/shared/types"
)

// Status summarizes a probe run.
type Status string

const (
	StatusWorking Status = "working"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// probeQuery is a term broad enough that any live directory should
// match something.
const probeQuery = "server"

// Report is the outcome of validating one source.
type Report struct {
	SourceID        string        `json:"source_id"`
	Status          Status        `json:"status"`
	Connectivity    bool          `json:"connectivity"`
	Functionality   bool          `json:"functionality"`
	Parsing         bool          `json:"parsing"`
	Records         int           `json:"records"`
	Elapsed         time.Duration `json:"elapsed_ms"`
	Summary         string        `json:"summary"`
	Recommendations []string      `json:"recommendations,omitempty"`
}

// Validator runs probes against sources.
type Validator struct {
	fetcher  extract.Fetcher
	registry *extract.Registry
	log      *logging.Logger
}

// New creates a validator sharing the engine's fetcher and strategies.
func New(fetcher extract.Fetcher, registry *extract.Registry, log *logging.Logger) *Validator {
	if log == nil {
		log = logging.NewNop()
	}
	return &Validator{fetcher: fetcher, registry: registry, log: log}
}

// Validate probes one source.
func (v *Validator) Validate(ctx context.Context, src types.SourceConfig) Report {
	start := time.Now()
	report := Report{SourceID: src.ID}

	if err := src.Validate(); err != nil {
		report.Status = StatusFailed
		report.Summary = fmt.Sprintf("configuration invalid: %v", err)
		report.Recommendations = append(report.Recommendations,
			"fix the source entry in the catalog file")
		report.Elapsed = time.Since(start)
		return report
	}

	report.Connectivity = v.probeConnectivity(ctx, src)
	if report.Connectivity {
		records := v.probeSearch(ctx, src)
		report.Records = len(records)
		report.Functionality = len(records) > 0
		report.Parsing = parsable(records)
	}

	report.Status = statusFor(report)
	report.Summary = summaryFor(report, src)
	report.Recommendations = recommendationsFor(report, src)
	report.Elapsed = time.Since(start)

	v.log.Info("source validated",
		zap.String("source", src.ID),
		zap.String("status", string(report.Status)),
		zap.Int("records", report.Records))
	return report
}

// ValidateAll probes every source in order.
func (v *Validator) ValidateAll(ctx context.Context, sources []types.SourceConfig) []Report {
	reports := make([]Report, 0, len(sources))
	for _, src := range sources {
		reports = append(reports, v.Validate(ctx, src))
	}
	return reports
}

// probeConnectivity checks the source's base endpoint answers at all.
// Auth errors still prove the host is reachable.
func (v *Validator) probeConnectivity(ctx context.Context, src types.SourceConfig) bool {
	target := src.URL
	if target == "" {
		// Repository-backed sources have no site of their own.
		target = "https://github.com/" + src.Repo
	}

	_, err := v.fetcher.Get(ctx, target, nil)
	if err == nil {
		return true
	}
	return fetch.IsHTTP(err)
}

// probeSearch runs the source's real strategy with a broad query.
func (v *Validator) probeSearch(ctx context.Context, src types.SourceConfig) []types.ResultRecord {
	strategy, ok := v.registry.ForMode(src.Mode)
	if !ok {
		return nil
	}
	return strategy.Extract(ctx, src, probeQuery)
}

// parsable reports whether extracted records carry usable fields beyond
// the bare minimum.
func parsable(records []types.ResultRecord) bool {
	for _, rec := range records {
		if rec.Valid() && (rec.Description != "" || rec.GithubURL != "") {
			return true
		}
	}
	return false
}

func statusFor(r Report) Status {
	switch {
	case r.Connectivity && r.Functionality && r.Parsing:
		return StatusWorking
	case r.Connectivity:
		return StatusPartial
	default:
		return StatusFailed
	}
}

func summaryFor(r Report, src types.SourceConfig) string {
	switch r.Status {
	case StatusWorking:
		return fmt.Sprintf("%s is healthy: probe search returned %d records", src.DisplayName(), r.Records)
	case StatusPartial:
		if !r.Functionality {
			return fmt.Sprintf("%s is reachable but the probe search returned nothing", src.DisplayName())
		}
		return fmt.Sprintf("%s returned records that parsed poorly", src.DisplayName())
	default:
		return fmt.Sprintf("%s is unreachable", src.DisplayName())
	}
}

func recommendationsFor(r Report, src types.SourceConfig) []string {
	var recs []string
	if !r.Connectivity {
		recs = append(recs, "check the source URL and network reachability")
	}
	if r.Connectivity && !r.Functionality {
		recs = append(recs, "the site layout or API may have changed; review the extraction selectors")
		if (src.Mode == types.ModeGithubAPI || src.Mode == types.ModeAwesomeList) && src.Token == "" {
			recs = append(recs, "set a GitHub token; anonymous API limits are easily exhausted")
		}
	}
	if r.Functionality && !r.Parsing {
		recs = append(recs, "records are missing descriptions and repository links; selectors may be stale")
	}
	return recs
}
