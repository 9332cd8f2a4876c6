package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RafalekS/MCP-Search/internal/shared/types"
)

const tomlCatalog = `
[api_keys]
github_api_key = "tok-123"

[[categories]]
id = "mcp_directories"
name = "MCP Directories"
sources = ["pulsemcp.com", "github_mcp_servers"]

[[sources]]
id = "pulsemcp.com"
name = "PulseMCP"
search_method = "url_param"
url = "https://www.pulsemcp.com"
search_endpoint = "https://www.pulsemcp.com/servers?q={query}"

[[sources]]
id = "github_mcp_servers"
name = "MCP Servers Repo"
search_method = "awesome_list"
search_repo = "modelcontextprotocol/servers"
search_file = "README.md"
`

const yamlCatalog = `
api_keys:
  github_api_key: tok-456
categories:
  - id: directories
    name: Directories
    sources: [finder]
sources:
  - id: finder
    name: Finder
    search_method: github_api
    search_repo: owner/repo
`

func writeCatalog(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCatalogTOML(t *testing.T) {
	cat, err := LoadCatalog(writeCatalog(t, "sources.toml", tomlCatalog))
	require.NoError(t, err)

	src, ok := cat.Source("pulsemcp.com")
	require.True(t, ok)
	assert.Equal(t, types.ModeURLParam, src.Mode)
	assert.Equal(t, "PulseMCP", src.Name)
	assert.Empty(t, src.Token)

	// Repository-mode sources pick up the github key by default.
	repo, ok := cat.Source("github_mcp_servers")
	require.True(t, ok)
	assert.Equal(t, "tok-123", repo.Token)

	cats := cat.Categories()
	require.Len(t, cats, 1)
	assert.Equal(t, "mcp_directories", cats[0].ID)
	assert.Len(t, cat.Sources(), 2)
}

func TestLoadCatalogYAML(t *testing.T) {
	cat, err := LoadCatalog(writeCatalog(t, "sources.yaml", yamlCatalog))
	require.NoError(t, err)

	src, ok := cat.Source("finder")
	require.True(t, ok)
	assert.Equal(t, types.ModeGithubAPI, src.Mode)
	assert.Equal(t, "tok-456", src.Token)
}

func TestLoadCatalogEnvToken(t *testing.T) {
	t.Setenv("TEST_GH_TOKEN", "env-tok")
	content := `
api_keys:
  github_api_key: ${TEST_GH_TOKEN}
categories:
  - id: c
    name: C
    sources: [s]
sources:
  - id: s
    name: S
    search_method: awesome_list
    search_repo: o/r
`
	cat, err := LoadCatalog(writeCatalog(t, "sources.yml", content))
	require.NoError(t, err)

	src, _ := cat.Source("s")
	assert.Equal(t, "env-tok", src.Token)
}

func TestLoadCatalogRejectsUnknownFormat(t *testing.T) {
	_, err := LoadCatalog(writeCatalog(t, "sources.ini", "[x]"))
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 4, cfg.Engine.Workers)
	assert.Equal(t, 50, cfg.Engine.MaxCandidates)
	assert.Equal(t, "MCP-Search/1.0", cfg.Fetch.UserAgent)
}
