package extract

import (
	"context"
	"net/url"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/RafalekS/MCP-Search/internal/shared/types"
)

// DirectAPI queries sources that expose a JSON search endpoint.
type DirectAPI struct {
	deps Deps
}

func (s *DirectAPI) Mode() types.RetrievalMode { return types.ModeAPI }

func (s *DirectAPI) Extract(ctx context.Context, src types.SourceConfig, query string) []types.ResultRecord {
	t := s.deps.timer("api")

	searchURL := buildSearchURL(src, query)
	if searchURL == "" {
		s.deps.Log.Warn("api source has no usable endpoint", zap.String("source", src.ID))
		stopTimer(t, "config_error", 0)
		return nil
	}

	headers := map[string]string{"Accept": "application/json"}
	if src.Token != "" {
		headers["Authorization"] = "Bearer " + src.Token
	}

	resp, err := s.deps.Fetcher.Get(ctx, searchURL, headers)
	if err != nil {
		s.deps.Log.Warn("api fetch failed",
			zap.String("source", src.ID),
			zap.Error(err))
		stopTimer(t, "fetch_error", 0)
		return nil
	}

	records := decodeAPIRecords(resp.Body, src)
	if records == nil {
		// Endpoints occasionally answer with plaintext or HTML error
		// pages. Salvage what little is salvageable rather than fail.
		records = plainTextFallback(resp.Body, src)
		if records != nil {
			s.deps.Log.Debug("api response was not json, used line fallback",
				zap.String("source", src.ID),
				zap.String("content_type", mimetype.Detect(resp.Body).String()))
		}
	}

	records = capRecords(records, s.deps.MaxCandidates)
	stopTimer(t, "ok", len(records))
	return records
}

// buildSearchURL renders the source's search endpoint for a query. A
// {query} placeholder is substituted in place; endpoints without one get
// the query appended as a q parameter.
func buildSearchURL(src types.SourceConfig, query string) string {
	endpoint := src.SearchEndpoint
	if endpoint == "" {
		endpoint = src.URL
	}
	if endpoint == "" {
		return ""
	}
	// Substitute before resolving: url.Parse would percent-encode the
	// braces in a relative template and the placeholder would never match.
	escaped := url.QueryEscape(strings.TrimSpace(query))
	if strings.Contains(endpoint, "{query}") {
		return resolveURL(src.URL, strings.ReplaceAll(endpoint, "{query}", escaped))
	}
	endpoint = resolveURL(src.URL, endpoint)

	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + "q=" + escaped
}

// decodeAPIRecords maps a JSON payload to records, tolerating the field
// aliases and envelope shapes seen across directory APIs. Returns nil
// when the payload is not JSON at all.
func decodeAPIRecords(body []byte, src types.SourceConfig) []types.ResultRecord {
	var decoded any
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return nil
	}

	items := findItemArray(decoded)
	records := make([]types.ResultRecord, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		rec := recordFromObject(obj, src)
		if rec.Valid() {
			records = append(records, rec)
		}
	}
	return records
}

// envelopeKeys are the wrapper fields APIs commonly nest result arrays
// under, tried in order.
var envelopeKeys = []string{"results", "data", "items", "servers", "tools"}

func findItemArray(decoded any) []any {
	switch v := decoded.(type) {
	case []any:
		return v
	case map[string]any:
		for _, key := range envelopeKeys {
			if arr, ok := v[key].([]any); ok {
				return arr
			}
		}
	}
	return nil
}

func recordFromObject(obj map[string]any, src types.SourceConfig) types.ResultRecord {
	rec := types.ResultRecord{
		Name:        firstString(obj, "name", "title", "display_name"),
		Description: truncateText(firstString(obj, "description", "desc", "summary"), 300),
		URL:         firstString(obj, "url", "link", "homepage", "html_url"),
		GithubURL:   firstString(obj, "github_url", "github", "repository", "repo_url"),
		Source:      src.DisplayName(),
	}
	if rec.GithubURL == "" && strings.Contains(rec.URL, "github.com") {
		rec.GithubURL = rec.URL
	}
	if rec.URL == "" {
		rec.URL = rec.GithubURL
	}
	if updated := firstString(obj, "last_updated", "updated_at", "updatedAt"); updated != "" {
		rec.LastUpdated = updated
	}
	return rec
}

func firstString(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// plainTextFallback reads the first few non-empty lines of a text
// payload as low-confidence names. Non-text payloads yield nothing.
func plainTextFallback(body []byte, src types.SourceConfig) []types.ResultRecord {
	kind := mimetype.Detect(body)
	if !strings.HasPrefix(kind.String(), "text/plain") {
		return nil
	}

	var records []types.ResultRecord
	for _, line := range strings.Split(string(body), "\n") {
		if len(records) >= plainTextFallbackLines {
			break
		}
		line = normalizeWhitespace(line)
		if len(line) < minNameLen || looksLikeURL(line) {
			continue
		}
		rec := types.ResultRecord{
			Name:   truncateText(line, 120),
			URL:    src.URL,
			Source: src.DisplayName(),
		}
		records = append(records, rec.WithInfo("confidence", "low"))
	}
	return records
}

func capRecords(records []types.ResultRecord, max int) []types.ResultRecord {
	if max > 0 && len(records) > max {
		return records[:max]
	}
	return records
}
