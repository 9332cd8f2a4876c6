package extract

import "regexp"

// Extraction limits. The heuristics deliberately trade recall for
// precision: a missed catalog item is cheaper than menu leakage.
const (
	defaultMaxCandidates = 50
	minNameLen           = 2
	minLinkTextLen       = 4
	minDescLen           = 15
	minDescWords         = 4
	// plainTextFallbackLines bounds the low-confidence line parse when a
	// JSON API returns something that is not JSON.
	plainTextFallbackLines = 10
)

// noiseVocabulary identifies navigational/meta markdown lines that are
// never catalog items. Matched case-insensitively as substrings of a
// candidate's display name or trailing text.
var noiseVocabulary = []string{
	"table of contents",
	"contributing",
	"contribution",
	"license",
	"readme",
	"back to top",
	"see also",
	"documentation",
	"wiki",
	"homepage",
	"getting started",
	"installation",
	"changelog",
	"code of conduct",
	"what is mcp",
	"legend",
}

// markdownMatcher is one list-item pattern capturing
// (displayName, targetURL, trailingText).
type markdownMatcher struct {
	name string
	re   *regexp.Regexp
}

// markdownMatchers are tried in order; the first match wins and no
// further pattern is attempted for that line.
var markdownMatchers = []markdownMatcher{
	{"bullet", regexp.MustCompile(`^\s*[-*]\s+\[([^\]]+)\]\(([^)\s]+)\)\s*[-–—:]?\s*(.*)$`)},
	{"bullet-bold", regexp.MustCompile(`^\s*[-*]\s+\*\*\[([^\]]+)\]\(([^)\s]+)\)\*\*\s*[-–—:]?\s*(.*)$`)},
	{"numbered", regexp.MustCompile(`^\s*\d+\.\s+\[([^\]]+)\]\(([^)\s]+)\)\s*[-–—:]?\s*(.*)$`)},
}

// containerSelectors are structural queries for result-like containers,
// in priority order. The first selector matching more than one node wins.
var containerSelectors = []string{
	".server-card",
	".result-card",
	".search-result",
	".result-item",
	"[class*='server-card']",
	"[data-test-id*='card']",
	"article",
	"li.result",
	".card",
}

// nameSelectors locate a candidate's display name within its container.
var nameSelectors = []string{
	"h1", "h2", "h3", "h4",
	".title", ".name",
	"[class*='title']", "[class*='name']",
}

// descriptionSelectors locate a candidate's description within its
// container.
var descriptionSelectors = []string{
	".description", ".summary",
	"[class*='desc']", "[class*='summary']",
	"p",
}

// resultPathFragments mark URLs that look like individual result pages.
var resultPathFragments = []string{
	"/server",
	"/tool",
	"/agent",
	"/mcp",
	"/project",
	"/repo",
}

// utilityPathDenylist rejects links to site plumbing rather than results.
var utilityPathDenylist = []string{
	"/new",
	"/create",
	"/search",
	"/filter",
	"/login",
	"/logout",
	"/signup",
	"/sign-up",
	"/register",
	"/settings",
	"/account",
	"/privacy",
	"/terms",
	"/api/",
}

// genericNameDenylist rejects assembled records whose name is site
// furniture rather than an item.
var genericNameDenylist = []string{
	"home",
	"about",
	"search",
	"login",
	"log in",
	"sign up",
	"servers",
	"browse",
	"menu",
	"more",
	"next",
	"previous",
	"submit",
	"categories",
}

// descriptionDenylist rejects boilerplate call-to-action strings found
// where descriptions should be.
var descriptionDenylist = []string{
	"view details",
	"learn more",
	"read more",
	"click here",
	"get started",
	"see more",
	"view all",
}

// extendedDescriptionDenylist additionally rejects sponsor/ad phrasing;
// applied by site-aware extractors whose listings mix in promotions.
var extendedDescriptionDenylist = []string{
	"sponsored",
	"advertisement",
	"promoted",
	"featured listing",
}
