package extract

import (
	"context"

	"github.com/RafalekS/MCP-Search/internal/fetch"
	"github.com/RafalekS/MCP-Search/internal/infrastructure/logging"
	"github.com/RafalekS/MCP-Search/internal/infrastructure/monitoring"
	"github.com/RafalekS/MCP-Search/internal/shared/types"
)

// Fetcher is the HTTP capability strategies consume.
type Fetcher interface {
	Get(ctx context.Context, url string, headers map[string]string) (*fetch.Response, error)
}

// Strategy is one fetch+parse unit. Extract fails only internally: an
// unrecoverable failure yields an empty slice, never an error.
type Strategy interface {
	Mode() types.RetrievalMode
	Extract(ctx context.Context, src types.SourceConfig, query string) []types.ResultRecord
}

// Deps carries the collaborators every strategy shares.
type Deps struct {
	Fetcher Fetcher
	Log     *logging.Logger
	Metrics *monitoring.Metrics
	// MaxCandidates caps records per extraction call to bound cost on
	// pathological pages. Zero selects the default of 50.
	MaxCandidates int
}

func (d *Deps) normalize() {
	if d.Log == nil {
		d.Log = logging.NewNop()
	}
	if d.MaxCandidates <= 0 {
		d.MaxCandidates = defaultMaxCandidates
	}
}

func (d *Deps) timer(strategy string) *monitoring.Timer {
	if d.Metrics == nil {
		return nil
	}
	return monitoring.NewTimer(d.Metrics, strategy)
}

func stopTimer(t *monitoring.Timer, status string, records int) {
	if t != nil {
		t.Stop(status, records)
	}
}

// Registry resolves a strategy by retrieval-mode tag.
type Registry struct {
	strategies map[types.RetrievalMode]Strategy
}

// NewRegistry builds the default strategy set.
func NewRegistry(deps Deps) *Registry {
	deps.normalize()
	pipeline := newHTMLPipeline(deps.MaxCandidates)

	all := []Strategy{
		&DirectAPI{deps: deps},
		&URLParameterHTML{deps: deps, pipeline: pipeline},
		&RepositoryCodeSearch{deps: deps},
		&CuratedListMarkdown{deps: deps},
		&GenericHTMLFallback{deps: deps, pipeline: pipeline},
	}

	r := &Registry{strategies: make(map[types.RetrievalMode]Strategy, len(all))}
	for _, s := range all {
		r.strategies[s.Mode()] = s
	}
	return r
}

// ForMode returns the strategy registered for a retrieval mode.
func (r *Registry) ForMode(mode types.RetrievalMode) (Strategy, bool) {
	s, ok := r.strategies[mode]
	return s, ok
}
