package extract

import (
	"context"

	"go.uber.org/zap"

	"github.com/RafalekS/MCP-Search/internal/shared/types"
)

// GenericHTMLFallback scrapes a directory page that has no search
// endpoint at all. The page shows everything, so records are filtered
// against the query after extraction.
type GenericHTMLFallback struct {
	deps     Deps
	pipeline *htmlPipeline
}

func (s *GenericHTMLFallback) Mode() types.RetrievalMode { return types.ModeScrape }

func (s *GenericHTMLFallback) Extract(ctx context.Context, src types.SourceConfig, query string) []types.ResultRecord {
	t := s.deps.timer("scrape")

	if src.URL == "" {
		s.deps.Log.Warn("scrape source has no url", zap.String("source", src.ID))
		stopTimer(t, "config_error", 0)
		return nil
	}

	resp, err := s.deps.Fetcher.Get(ctx, src.URL, nil)
	if err != nil {
		s.deps.Log.Warn("page fetch failed",
			zap.String("source", src.ID),
			zap.Error(err))
		stopTimer(t, "fetch_error", 0)
		return nil
	}

	doc, err := loadHTML(resp.Body)
	if err != nil {
		s.deps.Log.Warn("page unparsable",
			zap.String("source", src.ID),
			zap.Error(err))
		stopTimer(t, "parse_error", 0)
		return nil
	}

	records := s.pipeline.ExtractGeneric(doc, src.URL, src)

	filtered := records[:0]
	for _, rec := range records {
		if matchesQuery(query, rec.Name, rec.Description, "") {
			filtered = append(filtered, rec)
		}
	}

	stopTimer(t, "ok", len(filtered))
	return filtered
}
