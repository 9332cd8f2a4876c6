package extract

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/RafalekS/MCP-Search/internal/shared/types"
)

const githubAPIBase = "https://api.github.com"

// RepositoryCodeSearch probes a repository's indexed content through the
// code-search API. A hit means the repository mentions the query, so the
// outcome is a single pointer record rather than per-file noise.
type RepositoryCodeSearch struct {
	deps Deps
}

func (s *RepositoryCodeSearch) Mode() types.RetrievalMode { return types.ModeGithubAPI }

func (s *RepositoryCodeSearch) Extract(ctx context.Context, src types.SourceConfig, query string) []types.ResultRecord {
	t := s.deps.timer("github_api")

	if src.Repo == "" {
		s.deps.Log.Warn("github_api source missing repository", zap.String("source", src.ID))
		stopTimer(t, "config_error", 0)
		return nil
	}

	params := url.Values{}
	params.Set("q", fmt.Sprintf("%s repo:%s", query, src.Repo))
	params.Set("sort", "indexed")
	params.Set("order", "desc")
	searchURL := githubAPIBase + "/search/code?" + params.Encode()

	resp, err := s.deps.Fetcher.Get(ctx, searchURL, githubHeaders(src))
	if err != nil {
		s.deps.Log.Warn("code search failed",
			zap.String("source", src.ID),
			zap.String("repo", src.Repo),
			zap.Error(err))
		stopTimer(t, "fetch_error", 0)
		return nil
	}

	var payload struct {
		TotalCount int `json:"total_count"`
		Items      []struct {
			Path       string `json:"path"`
			HTMLURL    string `json:"html_url"`
			Repository struct {
				UpdatedAt string `json:"updated_at"`
			} `json:"repository"`
		} `json:"items"`
	}
	if err := sonic.Unmarshal(resp.Body, &payload); err != nil {
		s.deps.Log.Warn("code search response unparsable",
			zap.String("source", src.ID),
			zap.Error(err))
		stopTimer(t, "parse_error", 0)
		return nil
	}

	if payload.TotalCount == 0 {
		stopTimer(t, "ok", 0)
		return nil
	}

	repoURL := "https://github.com/" + src.Repo
	rec := types.ResultRecord{
		Name:        fmt.Sprintf("%s (matches for %q)", src.DisplayName(), query),
		Description: fmt.Sprintf("%d indexed files in %s mention this query", payload.TotalCount, src.Repo),
		URL:         repoURL,
		GithubURL:   repoURL,
		Source:      src.DisplayName(),
	}
	rec = rec.WithInfo("match_count", strconv.Itoa(payload.TotalCount))
	if len(payload.Items) > 0 {
		rec = rec.WithInfo("top_match", payload.Items[0].Path)
		// Not every response shape carries the repository timestamp.
		rec.LastUpdated = payload.Items[0].Repository.UpdatedAt
	}

	stopTimer(t, "ok", 1)
	return []types.ResultRecord{rec}
}

// githubHeaders builds the auth/accept headers for the GitHub API. The
// token header is omitted when no token resolved, which keeps public
// endpoints working at the lower anonymous rate limit.
func githubHeaders(src types.SourceConfig) map[string]string {
	headers := map[string]string{"Accept": "application/vnd.github+json"}
	if src.Token != "" {
		headers["Authorization"] = "token " + src.Token
	}
	return headers
}
