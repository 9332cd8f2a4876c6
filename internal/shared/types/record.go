package types

// ResultRecord is the canonical output entity of every extraction strategy.
// Records are created by a strategy and immutable afterwards; aggregates
// (cache entries, orchestration results) own the records they hold.
type ResultRecord struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	GithubURL   string `json:"github_url,omitempty"`
	Source      string `json:"source"`
	Category    string `json:"category,omitempty"`
	LastUpdated string `json:"last_updated,omitempty"`

	// AdditionalInfo carries open-ended auxiliary data such as match
	// counts or extraction confidence.
	AdditionalInfo map[string]string `json:"additional_info,omitempty"`
}

// Valid reports whether the record satisfies the structural invariant:
// a non-empty name and at least one of URL/GithubURL set. Invalid records
// are dropped at extraction time.
func (r ResultRecord) Valid() bool {
	if r.Name == "" {
		return false
	}
	return r.URL != "" || r.GithubURL != ""
}

// WithInfo returns a copy of the record with one auxiliary key set.
func (r ResultRecord) WithInfo(key, value string) ResultRecord {
	info := make(map[string]string, len(r.AdditionalInfo)+1)
	for k, v := range r.AdditionalInfo {
		info[k] = v
	}
	info[key] = value
	r.AdditionalInfo = info
	return r
}

// FilterValid returns only the records passing Valid, preserving order.
func FilterValid(records []ResultRecord) []ResultRecord {
	out := make([]ResultRecord, 0, len(records))
	for _, r := range records {
		if r.Valid() {
			out = append(out, r)
		}
	}
	return out
}
