package extract

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/RafalekS/MCP-Search/internal/shared/types"
)

// CuratedListMarkdown pulls an awesome-list file through the repository
// contents API and parses its markdown catalog.
type CuratedListMarkdown struct {
	deps Deps
}

func (s *CuratedListMarkdown) Mode() types.RetrievalMode { return types.ModeAwesomeList }

func (s *CuratedListMarkdown) Extract(ctx context.Context, src types.SourceConfig, query string) []types.ResultRecord {
	t := s.deps.timer("awesome_list")

	if src.Repo == "" {
		s.deps.Log.Warn("awesome_list source missing repository", zap.String("source", src.ID))
		stopTimer(t, "config_error", 0)
		return nil
	}

	file := src.File
	if file == "" {
		file = "README.md"
	}
	contentsURL := fmt.Sprintf("%s/repos/%s/contents/%s", githubAPIBase, src.Repo, file)

	resp, err := s.deps.Fetcher.Get(ctx, contentsURL, githubHeaders(src))
	if err != nil {
		s.deps.Log.Warn("list fetch failed",
			zap.String("source", src.ID),
			zap.String("repo", src.Repo),
			zap.Error(err))
		stopTimer(t, "fetch_error", 0)
		return nil
	}

	content, err := decodeContentsPayload(resp.Body)
	if err != nil {
		s.deps.Log.Warn("list payload unparsable",
			zap.String("source", src.ID),
			zap.Error(err))
		stopTimer(t, "parse_error", 0)
		return nil
	}

	records := parseMarkdownCatalog(content, query, src)
	stopTimer(t, "ok", len(records))
	return records
}

// decodeContentsPayload unwraps a contents-API response. The API returns
// base64 with embedded newlines; other encodings pass through as-is.
func decodeContentsPayload(body []byte) (string, error) {
	var payload struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode contents envelope: %w", err)
	}
	if payload.Content == "" {
		return "", fmt.Errorf("contents payload is empty")
	}
	if payload.Encoding != "base64" {
		return payload.Content, nil
	}

	compact := strings.ReplaceAll(payload.Content, "\n", "")
	decoded, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return "", fmt.Errorf("decode base64 content: %w", err)
	}
	return string(decoded), nil
}
