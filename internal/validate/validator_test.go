package validate

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RafalekS/MCP-Search/internal/extract"
	"github.com/RafalekS/MCP-Search/internal/fetch"
	"github.com/RafalekS/MCP-Search/internal/shared/types"
)

// scriptedFetcher maps URL substrings to responses or errors.
type scriptedFetcher struct {
	bodies map[string][]byte
	errs   map[string]error
}

func (f *scriptedFetcher) Get(_ context.Context, url string, _ map[string]string) (*fetch.Response, error) {
	for key, err := range f.errs {
		if key == "" || strings.Contains(url, key) {
			return nil, err
		}
	}
	for key, body := range f.bodies {
		if key == "" || strings.Contains(url, key) {
			return &fetch.Response{Body: body, StatusCode: 200, FinalURL: url}, nil
		}
	}
	return nil, fetch.ErrNetwork
}


func newValidator(f *scriptedFetcher) *Validator {
	return New(f, extract.NewRegistry(extract.Deps{Fetcher: f}), nil)
}

var validSrc = types.SourceConfig{
	ID: "api-src", Name: "API Source", Mode: types.ModeAPI,
	URL: "https://api.example.com",
}

func TestValidateWorkingSource(t *testing.T) {
	f := &scriptedFetcher{bodies: map[string][]byte{
		"api.example.com": []byte(`[{"name":"Probe Hit","description":"a server that matched the probe","url":"https://hit.dev"}]`),
	}}

	report := newValidator(f).Validate(context.Background(), validSrc)
	assert.Equal(t, StatusWorking, report.Status)
	assert.True(t, report.Connectivity)
	assert.True(t, report.Functionality)
	assert.True(t, report.Parsing)
	assert.Equal(t, 1, report.Records)
	assert.Empty(t, report.Recommendations)
}

func TestValidateUnreachableSourceFails(t *testing.T) {
	f := &scriptedFetcher{errs: map[string]error{"": fetch.ErrNetwork}}

	report := newValidator(f).Validate(context.Background(), validSrc)
	assert.Equal(t, StatusFailed, report.Status)
	assert.False(t, report.Connectivity)
	assert.Contains(t, report.Summary, "unreachable")
	require.NotEmpty(t, report.Recommendations)
}

func TestValidateReachableButEmptyIsPartial(t *testing.T) {
	f := &scriptedFetcher{bodies: map[string][]byte{
		"api.example.com": []byte(`[]`),
	}}

	report := newValidator(f).Validate(context.Background(), validSrc)
	assert.Equal(t, StatusPartial, report.Status)
	assert.True(t, report.Connectivity)
	assert.False(t, report.Functionality)
	assert.Contains(t, report.Summary, "returned nothing")
}

func TestValidateHTTPErrorStillProvesConnectivity(t *testing.T) {
	f := &scriptedFetcher{errs: map[string]error{
		"": &fetch.StatusError{Code: 403, URL: "https://api.example.com"},
	}}

	report := newValidator(f).Validate(context.Background(), validSrc)
	assert.True(t, report.Connectivity)
	assert.Equal(t, StatusPartial, report.Status)
}

func TestValidateSparseRecordsArePartial(t *testing.T) {
	f := &scriptedFetcher{bodies: map[string][]byte{
		"api.example.com": []byte(`[{"name":"Bare","url":"https://bare.dev"}]`),
	}}

	report := newValidator(f).Validate(context.Background(), validSrc)
	assert.True(t, report.Functionality)
	assert.False(t, report.Parsing)
	assert.Equal(t, StatusPartial, report.Status)
}

func TestValidateInvalidConfigShortCircuits(t *testing.T) {
	src := types.SourceConfig{ID: "broken", Mode: types.ModeGithubAPI}

	report := newValidator(&scriptedFetcher{}).Validate(context.Background(), src)
	assert.Equal(t, StatusFailed, report.Status)
	assert.Contains(t, report.Summary, "configuration invalid")
	assert.False(t, report.Connectivity)
}

func TestValidateTokenRecommendationForGithubModes(t *testing.T) {
	src := types.SourceConfig{
		ID: "gh", Name: "GH", Mode: types.ModeGithubAPI,
		Repo: "x/y",
	}
	f := &scriptedFetcher{bodies: map[string][]byte{
		"github.com": []byte(`{"total_count":0,"items":[]}`),
	}}

	report := newValidator(f).Validate(context.Background(), src)
	require.Equal(t, StatusPartial, report.Status)

	found := false
	for _, rec := range report.Recommendations {
		if strings.Contains(rec, "GitHub token") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidateAllKeepsOrder(t *testing.T) {
	f := &scriptedFetcher{bodies: map[string][]byte{
		"api.example.com": []byte(`[]`),
	}}
	other := validSrc
	other.ID = "second"

	reports := newValidator(f).ValidateAll(context.Background(), []types.SourceConfig{validSrc, other})
	require.Len(t, reports, 2)
	assert.Equal(t, "api-src", reports[0].SourceID)
	assert.Equal(t, "second", reports[1].SourceID)
}
