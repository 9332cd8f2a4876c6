package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RafalekS/MCP-Search/internal/shared/types"
)

var htmlSource = types.SourceConfig{
	ID:   "directory",
	Name: "Server Directory",
	Mode: types.ModeURLParam,
	URL:  "https://directory.example.com",
}

func mustDoc(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := loadHTML([]byte(body))
	require.NoError(t, err)
	return doc
}

const cardListDoc = `<html><body>
<div class="server-card">
  <h3>Weather Server</h3>
  <p class="description">Provides current conditions and forecasts for any coordinate pair</p>
  <a href="/servers/weather-server">View</a>
</div>
<div class="server-card">
  <h3>Mail Server</h3>
  <p class="description">Sends and drafts email through a connected mailbox account</p>
  <a href="/servers/mail-server">View</a>
</div>
<div class="server-card">
  <h3>Broken</h3>
</div>
</body></html>`

func TestGenericPipelineContainerMatch(t *testing.T) {
	p := newHTMLPipeline(0)
	records := p.ExtractGeneric(mustDoc(t, cardListDoc), htmlSource.URL, htmlSource)
	require.Len(t, records, 2)

	assert.Equal(t, "Weather Server", records[0].Name)
	assert.Equal(t, "https://directory.example.com/servers/weather-server", records[0].URL)
	assert.Contains(t, records[0].Description, "forecasts")
	assert.Equal(t, "Server Directory", records[0].Source)
}

func TestGenericPipelineSkipsCardWithoutLink(t *testing.T) {
	p := newHTMLPipeline(0)
	records := p.ExtractGeneric(mustDoc(t, cardListDoc), htmlSource.URL, htmlSource)
	for _, r := range records {
		assert.NotEqual(t, "Broken", r.Name)
	}
}

func TestGenericPipelineUtilityOnlyPageYieldsNothing(t *testing.T) {
	doc := mustDoc(t, `<html><body>
	<a href="/login">Log in to your account</a>
	<a href="/new">Create a new listing</a>
	<a href="/search?q=x">Search the directory</a>
	</body></html>`)

	p := newHTMLPipeline(0)
	assert.Empty(t, p.ExtractGeneric(doc, htmlSource.URL, htmlSource))
}

func TestLinkScanFallback(t *testing.T) {
	doc := mustDoc(t, `<html><body>
	<a href="/servers/calendar-sync">Calendar Sync Server</a>
	<a href="/servers/notes">Notes Server</a>
	<a href="/pricing">Pricing</a>
	<a href="/servers/x">az</a>
	</body></html>`)

	p := newHTMLPipeline(0)
	records := p.ExtractGeneric(doc, htmlSource.URL, htmlSource)
	require.Len(t, records, 2)
	assert.Equal(t, "Calendar Sync Server", records[0].Name)
	assert.Equal(t, "https://directory.example.com/servers/notes", records[1].URL)
}

func TestPipelineCandidateCeiling(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 80; i++ {
		fmt.Fprintf(&b, `<div class="server-card"><h3>Server %03d</h3><a href="/servers/s%03d">View</a></div>`, i, i)
	}
	b.WriteString("</body></html>")

	p := newHTMLPipeline(50)
	records := p.ExtractGeneric(mustDoc(t, b.String()), htmlSource.URL, htmlSource)
	assert.Len(t, records, 50)
	// Document order is preserved up to the cut.
	assert.Equal(t, "Server 000", records[0].Name)
}

func TestPipelineDedupesByURL(t *testing.T) {
	doc := mustDoc(t, `<html><body>
	<div class="server-card"><h3>Weather Server</h3><a href="/servers/weather">View</a></div>
	<div class="server-card"><h3>Weather Server Again</h3><a href="/servers/weather">View</a></div>
	</body></html>`)

	p := newHTMLPipeline(0)
	records := p.ExtractGeneric(doc, htmlSource.URL, htmlSource)
	assert.Len(t, records, 1)
}

func TestContainerSelectorPriority(t *testing.T) {
	// A single .server-card is not a result set; the li.result group is.
	doc := mustDoc(t, `<html><body>
	<div class="server-card"><h3>Lonely</h3><a href="/servers/lonely">View</a></div>
	<ul>
	<li class="result"><h4>First Server</h4><a href="/servers/first">View</a></li>
	<li class="result"><h4>Second Server</h4><a href="/servers/second">View</a></li>
	</ul>
	</body></html>`)

	nodes := firstContainerMatch(doc)
	require.NotNil(t, nodes)
	assert.Equal(t, 2, nodes.Length())
}

func TestFinishRecordDeniesFurnitureNames(t *testing.T) {
	_, ok := finishRecord(types.ResultRecord{Name: "Browse", URL: "https://x.dev/servers/a"}, htmlSource)
	assert.False(t, ok)

	_, ok = finishRecord(types.ResultRecord{Name: "Weather", URL: "https://x.dev/login"}, htmlSource)
	assert.False(t, ok)

	rec, ok := finishRecord(types.ResultRecord{Name: "Weather", URL: "https://github.com/x/weather"}, htmlSource)
	require.True(t, ok)
	assert.Equal(t, rec.URL, rec.GithubURL)
}

func TestDescFilter(t *testing.T) {
	f := genericDescFilter
	assert.False(t, f.ok("Weather", "short"), "below minimum length")
	assert.False(t, f.ok("Weather Server Tool", "Weather Server Tool"), "echoes the name")
	assert.False(t, f.ok("Weather", "https://weather.example.com/docs"), "bare url")
	assert.False(t, f.ok("Weather", "View details"), "call-to-action boilerplate")
	assert.False(t, f.ok("Weather", "Supercalifragilistic expialidocious"), "too few words")
	assert.True(t, f.ok("Weather", "Forecast lookups for any city with hourly resolution"))

	x := extendedDescFilter
	assert.False(t, x.ok("Weather", "Sponsored result from our partners"))
	assert.False(t, x.ok("Weather", "Christopherjohnson"), "author-like token")
	assert.True(t, x.ok("Weather", "Hourly forecasts worldwide"))
}
