package types

// RetrievalMode identifies how a source is queried.
type RetrievalMode string

const (
	// ModeAPI queries a JSON search API directly.
	ModeAPI RetrievalMode = "api"
	// ModeURLParam substitutes the query into a templated search URL and
	// parses the resulting HTML page.
	ModeURLParam RetrievalMode = "url_param"
	// ModeGithubAPI issues an authenticated code search scoped to a repo.
	ModeGithubAPI RetrievalMode = "github_api"
	// ModeAwesomeList fetches a curated markdown catalog via the
	// repository contents API.
	ModeAwesomeList RetrievalMode = "awesome_list"
	// ModeScrape fetches the source's base page and runs the generic
	// HTML pipeline.
	ModeScrape RetrievalMode = "scrape"
)

// Known reports whether the mode is one the engine can dispatch.
func (m RetrievalMode) Known() bool {
	switch m {
	case ModeAPI, ModeURLParam, ModeGithubAPI, ModeAwesomeList, ModeScrape:
		return true
	}
	return false
}

// SourceConfig describes one configured source. It is produced by the
// configuration collaborator and read-only to the engine.
type SourceConfig struct {
	ID             string        `json:"id" toml:"id" yaml:"id"`
	Name           string        `json:"name" toml:"name" yaml:"name"`
	Mode           RetrievalMode `json:"search_method" toml:"search_method" yaml:"search_method"`
	URL            string        `json:"url,omitempty" toml:"url" yaml:"url"`
	SearchEndpoint string        `json:"search_endpoint,omitempty" toml:"search_endpoint" yaml:"search_endpoint"`
	Repo           string        `json:"search_repo,omitempty" toml:"search_repo" yaml:"search_repo"`
	File           string        `json:"search_file,omitempty" toml:"search_file" yaml:"search_file"`

	// TokenKey names the api_keys entry whose value is injected as a
	// bearer token for repository-mode sources. Token holds the resolved
	// value and never round-trips through JSON.
	TokenKey string `json:"-" toml:"token_key" yaml:"token_key"`
	Token    string `json:"-" toml:"-" yaml:"-"`
}

// Validate reports the missing field for configurations the engine cannot
// dispatch. A source failing validation is skipped, never retried.
func (s SourceConfig) Validate() error {
	if s.ID == "" {
		return &ConfigError{Field: "id"}
	}
	if !s.Mode.Known() {
		return &ConfigError{Source: s.ID, Field: "search_method"}
	}
	switch s.Mode {
	case ModeAPI, ModeURLParam:
		// The search endpoint may be omitted when the base URL accepts a
		// plain q parameter.
		if s.SearchEndpoint == "" && s.URL == "" {
			return &ConfigError{Source: s.ID, Field: "search_endpoint"}
		}
	case ModeGithubAPI, ModeAwesomeList:
		if s.Repo == "" {
			return &ConfigError{Source: s.ID, Field: "search_repo"}
		}
	case ModeScrape:
		if s.URL == "" {
			return &ConfigError{Source: s.ID, Field: "url"}
		}
	}
	return nil
}

// DisplayName returns the human-readable name, falling back to the id.
func (s SourceConfig) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

// ConfigError marks a source configuration missing a required field.
type ConfigError struct {
	Source string
	Field  string
}

func (e *ConfigError) Error() string {
	if e.Source == "" {
		return "source config missing " + e.Field
	}
	return "source " + e.Source + ": config missing " + e.Field
}

// Category groups sources for orchestrated searches.
type Category struct {
	ID      string   `json:"id" toml:"id" yaml:"id"`
	Name    string   `json:"name" toml:"name" yaml:"name"`
	Sources []string `json:"sources" toml:"sources" yaml:"sources"`
}
