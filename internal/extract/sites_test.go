package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RafalekS/MCP-Search/internal/shared/types"
)

const pulseDoc = `<html><body>
<div data-test-id="mcp-server-grid-card-1">
  <h3>Slack Connector</h3>
  <p class="description">Post messages and read channels through a workspace bot</p>
  <a href="/servers/slack-connector">Open</a>
</div>
<div data-test-id="mcp-server-grid-card-2">
  <h3>Jira Connector</h3>
  <p class="description">Sponsored</p>
  <a href="/servers/jira-connector">Open</a>
</div>
</body></html>`

func TestPulseMCPCards(t *testing.T) {
	src := types.SourceConfig{ID: "pulsemcp", Name: "PulseMCP", URL: "https://www.pulsemcp.com"}
	p := newHTMLPipeline(0)

	records := p.Extract(mustDoc(t, pulseDoc), src.URL, "https://www.pulsemcp.com/search?q=slack", src)
	require.Len(t, records, 2)

	assert.Equal(t, "Slack Connector", records[0].Name)
	assert.Equal(t, "https://www.pulsemcp.com/servers/slack-connector", records[0].URL)
	assert.Contains(t, records[0].Description, "workspace bot")
	// Promo text is dropped; the record survives without a description.
	assert.Empty(t, records[1].Description)
}

const serversOrgDoc = `<html><body>
<div><a href="/servers/github-integration">GitHub Integration</a>
<p>Issues, pull requests and repository browsing from one endpoint</p></div>
<div><a href="/servers/time-utilities">details</a></div>
<a href="/servers/">All servers</a>
<a href="/about">About</a>
</body></html>`

func TestMCPServersOrgLinkList(t *testing.T) {
	src := types.SourceConfig{ID: "mcpservers", Name: "mcpservers.org", URL: "https://mcpservers.org"}
	p := newHTMLPipeline(0)

	records := p.Extract(mustDoc(t, serversOrgDoc), src.URL, "https://mcpservers.org/?q=github", src)
	require.Len(t, records, 2)

	// Names come from the URL path, not the anchor text.
	assert.Equal(t, "Github Integration", records[0].Name)
	assert.Contains(t, records[0].Description, "pull requests")
	assert.Equal(t, "Time Utilities", records[1].Name)
	assert.Empty(t, records[1].Description)
}

func TestMCPServersOrgSkipsShallowPaths(t *testing.T) {
	src := types.SourceConfig{ID: "mcpservers", Name: "mcpservers.org", URL: "https://mcpservers.org"}
	records := extractMCPServersOrg(nil, mustDoc(t, `<a href="/servers/">Index</a>`), src.URL, src)
	assert.Empty(t, records)
}

const finderDoc = `<html><body>
<div class="search-result"><h4>Memory Store</h4><a href="/servers/memory-store">View</a>
<p class="description">Long-lived key value memory shared across agent sessions</p></div>
<div class="search-result"><h4>Vector Store</h4><a href="/servers/vector-store">View</a></div>
</body></html>`

func TestMCPServerFinderSelectorCascade(t *testing.T) {
	src := types.SourceConfig{ID: "finder", Name: "MCP Server Finder", URL: "https://mcpserverfinder.com"}
	p := newHTMLPipeline(0)

	records := p.Extract(mustDoc(t, finderDoc), src.URL, "https://mcpserverfinder.com/search?q=store", src)
	require.Len(t, records, 2)
	assert.Equal(t, "Memory Store", records[0].Name)
	assert.Contains(t, records[0].Description, "agent sessions")
}

func TestMCPServerFinderNoContainersYieldsNothing(t *testing.T) {
	src := types.SourceConfig{ID: "finder", Name: "MCP Server Finder", URL: "https://mcpserverfinder.com"}
	records := extractMCPServerFinder(nil, mustDoc(t, `<p>No results found.</p>`), src.URL, src)
	assert.Empty(t, records)
}

func TestSiteDispatchByHostSubstring(t *testing.T) {
	sites := defaultSiteExtractors()

	pattern, ok := hostMatchesSite("www.pulsemcp.com", sites)
	require.True(t, ok)
	assert.Equal(t, "pulsemcp.com", pattern)

	_, ok = hostMatchesSite("example.com", sites)
	assert.False(t, ok)
}
