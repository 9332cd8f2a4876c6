package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/RafalekS/MCP-Search/internal/shared/types"
)

// siteExtractor encodes one site's DOM conventions. Matching is by host
// substring so subdomains and www prefixes dispatch the same way.
type siteExtractor struct {
	hostPattern string
	extract     func(p *htmlPipeline, doc *goquery.Document, baseURL string, src types.SourceConfig) []types.ResultRecord
}

func defaultSiteExtractors() []siteExtractor {
	return []siteExtractor{
		{hostPattern: "pulsemcp.com", extract: extractPulseMCP},
		{hostPattern: "mcpservers.org", extract: extractMCPServersOrg},
		{hostPattern: "mcpserverfinder.com", extract: extractMCPServerFinder},
	}
}

// extractPulseMCP reads the card grid. Cards carry a stable test id, so
// the structural selectors are not needed here.
func extractPulseMCP(_ *htmlPipeline, doc *goquery.Document, baseURL string, src types.SourceConfig) []types.ResultRecord {
	var records []types.ResultRecord
	doc.Find("div[data-test-id*='mcp-server-grid-card']").Each(func(_ int, card *goquery.Selection) {
		if rec, ok := candidateFromNode(card, baseURL, src, extendedDescFilter); ok {
			records = append(records, rec)
		}
	})
	return records
}

// extractMCPServersOrg reads the server link list. Entries have no title
// element, so the display name is derived from the link path.
func extractMCPServersOrg(_ *htmlPipeline, doc *goquery.Document, baseURL string, src types.SourceConfig) []types.ResultRecord {
	var records []types.ResultRecord
	doc.Find("a[href*='/servers/']").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		resolved := resolveURL(baseURL, href)
		if pathDepth(resolved) < 2 {
			return
		}

		name := nameFromPath(resolved)
		if name == "" {
			name = normalizeWhitespace(link.Text())
		}

		rec := types.ResultRecord{
			Name:        name,
			Description: mcpServersOrgDescription(link, name),
			URL:         resolved,
			Source:      src.DisplayName(),
		}
		if rec, ok := finishRecord(rec, src); ok {
			records = append(records, rec)
		}
	})
	return records
}

// mcpServersOrgDescription looks for descriptive text near the link: its
// own text when it differs from the name, then a sibling paragraph.
func mcpServersOrgDescription(link *goquery.Selection, name string) string {
	if text := normalizeWhitespace(link.Text()); extendedDescFilter.ok(name, text) {
		return truncateText(text, 300)
	}
	if parent := link.Parent(); parent.Length() > 0 {
		text := normalizeWhitespace(parent.Find("p").First().Text())
		if extendedDescFilter.ok(name, text) {
			return truncateText(text, 300)
		}
	}
	return ""
}

// extractMCPServerFinder tries the site's known result containers in
// priority order and keeps the first selector that matches a result set.
func extractMCPServerFinder(_ *htmlPipeline, doc *goquery.Document, baseURL string, src types.SourceConfig) []types.ResultRecord {
	selectors := []string{
		".server-card",
		".result-item",
		".search-result",
		".listing-card",
		"div[class*='server']",
	}

	var nodes *goquery.Selection
	for _, selector := range selectors {
		found := doc.Find(selector)
		if found.Length() > 1 {
			nodes = found
			break
		}
	}
	if nodes == nil {
		return nil
	}

	var records []types.ResultRecord
	nodes.Each(func(_ int, node *goquery.Selection) {
		if rec, ok := candidateFromNode(node, baseURL, src, genericDescFilter); ok {
			records = append(records, rec)
		}
	})
	return records
}

// hostMatchesSite reports whether a host has a site-aware extractor, for
// callers that log the dispatch decision.
func hostMatchesSite(host string, sites []siteExtractor) (string, bool) {
	for _, site := range sites {
		if strings.Contains(host, site.hostPattern) {
			return site.hostPattern, true
		}
	}
	return "", false
}
