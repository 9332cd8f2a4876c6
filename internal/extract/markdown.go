package extract

import (
	"strings"

	"github.com/RafalekS/MCP-Search/internal/shared/types"
	"github.com/RafalekS/MCP-Search/internal/shared/utils"
)

// parseMarkdownCatalog extracts catalog items from curated-list markdown.
// Curated lists have no machine-readable schema; these heuristics prefer
// missed items over navigation leakage.
func parseMarkdownCatalog(content, query string, src types.SourceConfig) []types.ResultRecord {
	var records []types.ResultRecord

	// Current section is transient scan state threaded through the walk.
	section := ""

	for _, line := range strings.Split(content, "\n") {
		if heading, ok := headingText(line); ok {
			section = heading
			continue
		}

		name, target, trailing, ok := matchListItem(line)
		if !ok {
			continue
		}
		if len(name) < minNameLen {
			continue
		}
		if containsAnyFold(name, noiseVocabulary) || containsAnyFold(trailing, noiseVocabulary) {
			continue
		}
		// Items inside a navigational section are anchors, not entries.
		if containsAnyFold(section, noiseVocabulary) {
			continue
		}
		if strings.HasPrefix(target, "#") {
			continue
		}

		description := trimEmphasis(trailing)

		if !matchesQuery(query, name, description, section) {
			continue
		}

		if description == "" {
			description = synthesizeDescription(section)
		}

		rec := types.ResultRecord{
			Name:        name,
			Description: description,
			URL:         target,
			Source:      src.DisplayName(),
		}
		if strings.Contains(target, "github.com") {
			rec.GithubURL = target
		}
		if rec.Valid() {
			records = append(records, rec)
		}
	}

	return records
}

// headingText returns the stripped text of a markdown heading line.
func headingText(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimLeft(trimmed, "#")), true
}

// matchListItem tries the ordered list-item patterns; first match wins.
func matchListItem(line string) (name, target, trailing string, ok bool) {
	for _, m := range markdownMatchers {
		groups := m.re.FindStringSubmatch(line)
		if groups == nil {
			continue
		}
		return strings.TrimSpace(groups[1]), strings.TrimSpace(groups[2]), groups[3], true
	}
	return "", "", "", false
}

// matchesQuery applies the plain substring filter over name, description
// and the current section. No stemming, no ranking.
func matchesQuery(query, name, description, section string) bool {
	q := utils.NormalizeQuery(query)
	if q == "" {
		return true
	}
	return utils.ContainsFold(name, q) ||
		utils.ContainsFold(description, q) ||
		utils.ContainsFold(section, q)
}

func synthesizeDescription(section string) string {
	if section != "" {
		return "From " + section + " category"
	}
	return "From curated list"
}
