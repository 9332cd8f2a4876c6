package extract

import (
	"context"

	"go.uber.org/zap"

	"github.com/RafalekS/MCP-Search/internal/shared/types"
)

// URLParameterHTML fetches a search-results page with the query embedded
// in the URL and extracts records from the rendered HTML. Pages reached
// this way are already query-scoped, so no post-filter is applied.
type URLParameterHTML struct {
	deps     Deps
	pipeline *htmlPipeline
}

func (s *URLParameterHTML) Mode() types.RetrievalMode { return types.ModeURLParam }

func (s *URLParameterHTML) Extract(ctx context.Context, src types.SourceConfig, query string) []types.ResultRecord {
	t := s.deps.timer("url_param")

	searchURL := buildSearchURL(src, query)
	if searchURL == "" {
		s.deps.Log.Warn("url_param source has no usable endpoint", zap.String("source", src.ID))
		stopTimer(t, "config_error", 0)
		return nil
	}

	resp, err := s.deps.Fetcher.Get(ctx, searchURL, nil)
	if err != nil {
		s.deps.Log.Warn("search page fetch failed",
			zap.String("source", src.ID),
			zap.Error(err))
		stopTimer(t, "fetch_error", 0)
		return nil
	}

	doc, err := loadHTML(resp.Body)
	if err != nil {
		s.deps.Log.Warn("search page unparsable",
			zap.String("source", src.ID),
			zap.Error(err))
		stopTimer(t, "parse_error", 0)
		return nil
	}

	pageURL := resp.FinalURL
	if pageURL == "" {
		pageURL = searchURL
	}
	if pattern, ok := hostMatchesSite(hostOf(pageURL), s.pipeline.sites); ok {
		s.deps.Log.Debug("using site-aware extractor",
			zap.String("source", src.ID),
			zap.String("site", pattern))
	}

	records := s.pipeline.Extract(doc, src.URL, pageURL, src)
	stopTimer(t, "ok", len(records))
	return records
}
