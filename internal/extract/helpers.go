package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// maxHTMLSize limits HTML input to 10MB to prevent memory exhaustion.
const maxHTMLSize = 10 * 1024 * 1024

var (
	stripMarkupOnce sync.Once
	stripMarkup     *bluemonday.Policy
)

// stripTags removes any markup from extracted text fragments.
func stripTags(s string) string {
	stripMarkupOnce.Do(func() {
		stripMarkup = bluemonday.StrictPolicy()
	})
	return stripMarkup.Sanitize(s)
}

// detectCharset detects the charset of raw HTML bytes, defaulting to
// utf-8 when detection fails.
func detectCharset(data []byte) string {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}

// loadHTML parses HTML with automatic charset detection.
func loadHTML(data []byte) (*goquery.Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty html content")
	}
	if len(data) > maxHTMLSize {
		return nil, fmt.Errorf("html exceeds maximum size of %d bytes", maxHTMLSize)
	}

	detected := detectCharset(data)
	utf8Reader, err := charset.NewReader(bytes.NewReader(data), detected)
	if err != nil {
		return goquery.NewDocumentFromReader(bytes.NewReader(data))
	}
	return goquery.NewDocumentFromReader(utf8Reader)
}

// normalizeWhitespace collapses runs of whitespace into single spaces.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateText truncates text to max length with ellipsis.
func truncateText(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// containsAnyFold reports whether s contains any needle,
// case-insensitively.
func containsAnyFold(s string, needles []string) bool {
	lower := strings.ToLower(s)
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}

// equalsAnyFold reports whether s equals any needle after trimming and
// lowercasing.
func equalsAnyFold(s string, needles []string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, n := range needles {
		if lower == n {
			return true
		}
	}
	return false
}

// trimEmphasis strips markdown emphasis markers and trailing punctuation
// from trailing text so it reads as a plain description.
func trimEmphasis(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*_`")
	s = strings.TrimRight(s, " .,;:-–—")
	return strings.TrimSpace(s)
}

// resolveURL resolves href against base, returning href unchanged when
// it is already absolute or base is unparsable.
func resolveURL(base, href string) string {
	if href == "" {
		return ""
	}
	hrefURL, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if hrefURL.IsAbs() {
		return href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(hrefURL).String()
}

// hostOf extracts the lowercase host of a URL, empty when unparsable.
func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Host)
}

// pathOf extracts the path of a URL, falling back to the raw string for
// relative hrefs.
func pathOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if parsed.Path == "" {
		return rawURL
	}
	return parsed.Path
}

// pathDepth counts non-empty path segments.
func pathDepth(rawURL string) int {
	segments := strings.Split(strings.Trim(pathOf(rawURL), "/"), "/")
	depth := 0
	for _, seg := range segments {
		if seg != "" {
			depth++
		}
	}
	return depth
}

// nameFromPath derives a display name from the trailing URL path segment:
// separators become spaces and words are capitalized. Used by sites whose
// listings carry no title element.
func nameFromPath(rawURL string) string {
	trimmed := strings.Trim(pathOf(rawURL), "/")
	if trimmed == "" {
		return ""
	}
	segments := strings.Split(trimmed, "/")
	last := segments[len(segments)-1]
	last = strings.NewReplacer("-", " ", "_", " ", ".", " ").Replace(last)

	words := strings.Fields(last)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// looksLikeURL reports whether text is a bare URL rather than prose.
func looksLikeURL(s string) bool {
	trimmed := strings.TrimSpace(s)
	return strings.HasPrefix(trimmed, "http://") ||
		strings.HasPrefix(trimmed, "https://") ||
		strings.HasPrefix(trimmed, "www.")
}

// looksLikeAuthorName reports whether text is a single capitalized token,
// the shape of a bare author credit in a listing.
func looksLikeAuthorName(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || strings.ContainsAny(trimmed, " \t") {
		return false
	}
	first := trimmed[0]
	return first >= 'A' && first <= 'Z' && len(trimmed) < 24
}
