package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/RafalekS/MCP-Search/internal/shared/types"
)

// htmlPipeline turns a parsed search-result page into records. Dispatch
// is by host: a registered site-aware extractor encodes one site's DOM
// conventions and runs before the generic heuristics.
type htmlPipeline struct {
	maxCandidates int
	sites         []siteExtractor
}

func newHTMLPipeline(maxCandidates int) *htmlPipeline {
	if maxCandidates <= 0 {
		maxCandidates = defaultMaxCandidates
	}
	return &htmlPipeline{
		maxCandidates: maxCandidates,
		sites:         defaultSiteExtractors(),
	}
}

// Extract dispatches to a site-aware extractor when one is registered for
// the page's host, falling back to the generic pipeline.
func (p *htmlPipeline) Extract(doc *goquery.Document, baseURL, pageURL string, src types.SourceConfig) []types.ResultRecord {
	host := hostOf(pageURL)
	if host == "" {
		host = hostOf(baseURL)
	}

	for _, site := range p.sites {
		if strings.Contains(host, site.hostPattern) {
			return p.cap(dedupeByURL(site.extract(p, doc, baseURL, src)))
		}
	}
	return p.ExtractGeneric(doc, baseURL, src)
}

// ExtractGeneric runs the generic half of the pipeline: structural
// container selectors first, then a hyperlink scan.
func (p *htmlPipeline) ExtractGeneric(doc *goquery.Document, baseURL string, src types.SourceConfig) []types.ResultRecord {
	if nodes := firstContainerMatch(doc); nodes != nil {
		var records []types.ResultRecord
		nodes.Each(func(_ int, node *goquery.Selection) {
			if rec, ok := candidateFromNode(node, baseURL, src, genericDescFilter); ok {
				records = append(records, rec)
			}
		})
		return p.cap(dedupeByURL(records))
	}
	return p.cap(dedupeByURL(p.scanLinks(doc, baseURL, src)))
}

// firstContainerMatch returns the nodes of the first structural selector
// yielding more than one match, or nil when none qualifies.
func firstContainerMatch(doc *goquery.Document) *goquery.Selection {
	for _, selector := range containerSelectors {
		nodes := doc.Find(selector)
		if nodes.Length() > 1 {
			return nodes
		}
	}
	return nil
}

// scanLinks is the last-resort pass: keep hyperlinks whose path or text
// matches result-like fragments and whose text is long enough to be a
// name rather than an icon label.
func (p *htmlPipeline) scanLinks(doc *goquery.Document, baseURL string, src types.SourceConfig) []types.ResultRecord {
	root := documentRoot(doc)
	if root == nil {
		return nil
	}

	var records []types.ResultRecord
	for _, node := range htmlquery.Find(root, "//a[@href]") {
		href := htmlquery.SelectAttr(node, "href")
		text := normalizeWhitespace(htmlquery.InnerText(node))

		if len(text) <= minLinkTextLen {
			continue
		}
		if !containsAnyFold(pathOf(href), resultPathFragments) &&
			!containsAnyFold(text, resultPathFragments) {
			continue
		}

		rec := types.ResultRecord{
			Name:   text,
			URL:    resolveURL(baseURL, href),
			Source: src.DisplayName(),
		}
		if rec, ok := finishRecord(rec, src); ok {
			records = append(records, rec)
		}
	}
	return records
}

func documentRoot(doc *goquery.Document) *html.Node {
	if len(doc.Nodes) == 0 {
		return nil
	}
	return doc.Nodes[0]
}

// candidateFromNode assembles one record from a result-like container.
func candidateFromNode(node *goquery.Selection, baseURL string, src types.SourceConfig, filter descFilter) (types.ResultRecord, bool) {
	name := extractName(node)
	rawURL := extractURL(node)

	rec := types.ResultRecord{
		Name:        name,
		Description: extractDescription(node, name, filter),
		URL:         resolveURL(baseURL, rawURL),
		Source:      src.DisplayName(),
	}
	if name == "" && rec.URL != "" {
		rec.Name = nameFromPath(rec.URL)
	}
	return finishRecord(rec, src)
}

// extractName returns the first non-empty text among prioritized
// heading/title selectors, else the node's own link text.
func extractName(node *goquery.Selection) string {
	for _, selector := range nameSelectors {
		if text := normalizeWhitespace(node.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	if link := node.Find("a").First(); link.Length() > 0 {
		return normalizeWhitespace(link.Text())
	}
	if goquery.NodeName(node) == "a" {
		return normalizeWhitespace(node.Text())
	}
	return ""
}

// extractDescription returns the first candidate passing the validity
// filter among prioritized description selectors.
func extractDescription(node *goquery.Selection, name string, filter descFilter) string {
	for _, selector := range descriptionSelectors {
		var found string
		node.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := normalizeWhitespace(stripTags(s.Text()))
			if filter.ok(name, text) {
				found = text
				return false
			}
			return true
		})
		if found != "" {
			return truncateText(found, 300)
		}
	}
	return ""
}

// extractURL prefers the first link whose path looks like an individual
// result page, else the first link present.
func extractURL(node *goquery.Selection) string {
	var preferred, first string
	node.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if href == "" || href == "#" {
			return true
		}
		if first == "" {
			first = href
		}
		if containsAnyFold(pathOf(href), resultPathFragments) {
			preferred = href
			return false
		}
		return true
	})
	if preferred != "" {
		return preferred
	}
	if first == "" {
		if goquery.NodeName(node) == "a" {
			first, _ = node.Attr("href")
		}
	}
	return first
}

// finishRecord applies the final validity filter shared by every HTML
// extraction path.
func finishRecord(rec types.ResultRecord, src types.SourceConfig) (types.ResultRecord, bool) {
	rec.Name = normalizeWhitespace(rec.Name)

	if len(rec.Name) < minNameLen {
		return rec, false
	}
	if equalsAnyFold(rec.Name, genericNameDenylist) {
		return rec, false
	}
	if rec.URL == "" || !acceptRecordURL(rec.URL) {
		return rec, false
	}
	if strings.Contains(rec.URL, "github.com") {
		rec.GithubURL = rec.URL
	}
	if rec.Source == "" {
		rec.Source = src.DisplayName()
	}
	return rec, rec.Valid()
}

// acceptRecordURL rejects links to site plumbing rather than results.
func acceptRecordURL(rawURL string) bool {
	p := strings.ToLower(pathOf(rawURL))
	for _, deny := range utilityPathDenylist {
		if strings.Contains(p, deny) {
			return false
		}
	}
	return true
}

// descFilter validates description candidates.
type descFilter struct {
	minLen   int
	minWords int
	extended bool
}

var (
	genericDescFilter  = descFilter{minLen: minDescLen, minWords: minDescWords}
	extendedDescFilter = descFilter{minLen: minDescLen, minWords: 1, extended: true}
)

func (f descFilter) ok(name, text string) bool {
	if len(text) < f.minLen {
		return false
	}
	if strings.EqualFold(text, name) {
		return false
	}
	if looksLikeURL(text) {
		return false
	}
	if equalsAnyFold(text, descriptionDenylist) {
		return false
	}
	if f.extended {
		if containsAnyFold(text, extendedDescriptionDenylist) {
			return false
		}
		if looksLikeAuthorName(text) {
			return false
		}
	}
	return len(strings.Fields(text)) >= f.minWords
}

func (p *htmlPipeline) cap(records []types.ResultRecord) []types.ResultRecord {
	if len(records) > p.maxCandidates {
		return records[:p.maxCandidates]
	}
	return records
}

func dedupeByURL(records []types.ResultRecord) []types.ResultRecord {
	seen := make(map[string]bool, len(records))
	out := make([]types.ResultRecord, 0, len(records))
	for _, rec := range records {
		key := rec.URL
		if key == "" {
			key = rec.Name
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, rec)
	}
	return out
}
