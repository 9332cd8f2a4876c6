package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/RafalekS/MCP-Search/internal/shared/types"
)

// Catalog holds the configured sources and categories the engine searches.
// It is loaded once and read-only afterwards.
type Catalog struct {
	sources    map[string]types.SourceConfig
	categories map[string]types.Category
	order      []string // category ids in file order
}

// catalogFile is the on-disk shape, accepted as TOML or YAML.
type catalogFile struct {
	APIKeys    map[string]string    `toml:"api_keys" yaml:"api_keys"`
	Categories []types.Category     `toml:"categories" yaml:"categories"`
	Sources    []types.SourceConfig `toml:"sources" yaml:"sources"`
}

// LoadCatalog reads a source catalog from path. The format is selected by
// file extension: .toml, .yaml or .yml.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var file catalogFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parsing TOML catalog: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parsing YAML catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format: %s", filepath.Ext(path))
	}

	return buildCatalog(file)
}

func buildCatalog(file catalogFile) (*Catalog, error) {
	c := &Catalog{
		sources:    make(map[string]types.SourceConfig, len(file.Sources)),
		categories: make(map[string]types.Category, len(file.Categories)),
	}

	for _, src := range file.Sources {
		if src.ID == "" {
			return nil, fmt.Errorf("catalog contains a source without an id")
		}
		resolveToken(&src, file.APIKeys)
		c.sources[src.ID] = src
	}

	for _, cat := range file.Categories {
		if cat.ID == "" {
			return nil, fmt.Errorf("catalog contains a category without an id")
		}
		c.categories[cat.ID] = cat
		c.order = append(c.order, cat.ID)
	}

	return c, nil
}

// resolveToken fills SourceConfig.Token from the api_keys table. Values of
// the form ${VAR} resolve through the environment so tokens can stay out
// of the catalog file.
func resolveToken(src *types.SourceConfig, keys map[string]string) {
	key := src.TokenKey
	if key == "" && (src.Mode == types.ModeGithubAPI || src.Mode == types.ModeAwesomeList) {
		key = "github_api_key"
	}
	if key == "" {
		return
	}
	val := keys[key]
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		val = os.Getenv(strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}"))
	}
	src.Token = val
}

// Source returns the configuration for one source id.
func (c *Catalog) Source(id string) (types.SourceConfig, bool) {
	src, ok := c.sources[id]
	return src, ok
}

// Category returns one category by id.
func (c *Catalog) Category(id string) (types.Category, bool) {
	cat, ok := c.categories[id]
	return cat, ok
}

// Categories returns all categories in file order.
func (c *Catalog) Categories() []types.Category {
	out := make([]types.Category, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.categories[id])
	}
	return out
}

// Sources returns all configured sources, each once, in category order.
func (c *Catalog) Sources() []types.SourceConfig {
	seen := make(map[string]bool, len(c.sources))
	out := make([]types.SourceConfig, 0, len(c.sources))
	for _, cat := range c.Categories() {
		for _, id := range cat.Sources {
			if seen[id] {
				continue
			}
			if src, ok := c.sources[id]; ok {
				seen[id] = true
				out = append(out, src)
			}
		}
	}
	return out
}

// CategorySources resolves a category's source ids to configurations,
// preserving the category's declared order.
func (c *Catalog) CategorySources(id string) ([]types.SourceConfig, bool) {
	cat, ok := c.categories[id]
	if !ok {
		return nil, false
	}
	out := make([]types.SourceConfig, 0, len(cat.Sources))
	for _, sid := range cat.Sources {
		if src, ok := c.sources[sid]; ok {
			out = append(out, src)
		}
	}
	return out, true
}
