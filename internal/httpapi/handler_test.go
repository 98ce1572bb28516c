package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/profile-optimizer/internal/ai"
	"github.com/spigell/profile-optimizer/internal/dating"
	"github.com/spigell/profile-optimizer/internal/fixtures"
	"github.com/spigell/profile-optimizer/internal/pipeline"
)

type countingSuggester struct {
	calls int
	last  *ai.Request
	err   error
}

func (s *countingSuggester) Suggest(_ context.Context, req *ai.Request) (*dating.SuggestionSet, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return &dating.SuggestionSet{
		Suggestions:         []dating.Suggestion{{Current: "c", Suggestion: "s", ExampleForBio: "e", ExampleFromPotentialDates: "p"}},
		CommonDatesInterest: "Board games",
	}, nil
}

type countingOptimizer struct {
	Optimizer
	customCalls int
}

func (o *countingOptimizer) Custom(ctx context.Context, simple dating.SimpleProfile, country string) (*pipeline.Payload, error) {
	o.customCalls++
	return o.Optimizer.Custom(ctx, simple, country)
}

func writeFixture(t *testing.T, dir, name, who string) {
	t.Helper()
	body := `[{"user": {"name": "` + who + `", "bio": "tea", "photos": [{"url": "x"}]}, "distance_mi": 4}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func newTestHandler(t *testing.T, suggester ai.Suggester) (*Handler, *countingOptimizer) {
	t.Helper()

	dir := t.TempDir()
	writeFixture(t, dir, "potential_dates_JP.json", "Kyra")
	writeFixture(t, dir, "potential_dates_MY.json", "Amalina")
	writeFixture(t, dir, "potential_dates_sample.json", "Sample")

	loader := fixtures.NewLoader(fixtures.Config{Dir: dir}, nil)
	optimizer := &countingOptimizer{Optimizer: pipeline.New(pipeline.Deps{Fixtures: loader, Suggester: suggester}, pipeline.Options{})}

	return New(optimizer, Config{}, nil), optimizer
}

func do(t *testing.T, h http.Handler, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/", nil)
	} else {
		req = httptest.NewRequest(method, "/", strings.NewReader(body))
	}
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func assertCORS(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	for key, value := range corsHeaders {
		assert.Equal(t, value, rec.Header().Get(key), key)
	}
}

func TestEmptyBioReturnsCannedSuggestions(t *testing.T) {
	suggester := &countingSuggester{}
	h, _ := newTestHandler(t, suggester)

	rec := do(t, h, http.MethodPost, `{"profile": {"spotify": false, "bio": "", "birth_date": "1999-01-01", "interest": ["IT", "Technology"], "descriptors": [], "job": {"company": "A Company", "job_title": "Software Tester"}}, "country": "JP"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assertCORS(t, rec)

	var got dating.SuggestionSet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, *CannedSuggestions(), got)
	assert.Len(t, got.Suggestions, 3)
	assert.Equal(t, "Hiking and exploring coffee shops", got.CommonDatesInterest)
	assert.Equal(t, 0, suggester.calls)
}

func TestInvalidRequestsMakeNoCalls(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "not json", body: "profile"},
		{name: "missing profile", body: `{"country": "JP"}`},
		{name: "null profile", body: `{"profile": null}`},
		{name: "bad country", body: `{"profile": {"bio": "hi"}, "country": "JPN"}`},
		{name: "bad style", body: `{"profile": {"bio": "hi"}, "style": "pirate"}`},
		{name: "bad profile field", body: `{"profile": {"bio": 42}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suggester := &countingSuggester{}
			h, optimizer := newTestHandler(t, suggester)

			rec := do(t, h, http.MethodPost, tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assertCORS(t, rec)
			assert.JSONEq(t, `{"error":"No parameters found"}`, rec.Body.String())
			assert.Equal(t, 0, optimizer.customCalls)
			assert.Equal(t, 0, suggester.calls)
		})
	}
}

func TestCountryResolution(t *testing.T) {
	tests := []struct {
		name    string
		country string
		want    string
	}{
		{name: "upper case", country: `"country": "JP",`, want: "Kyra"},
		{name: "lower case", country: `"country": "jp",`, want: "Kyra"},
		{name: "unconfigured", country: `"country": "FR",`, want: "Sample"},
		{name: "default", country: "", want: "Amalina"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suggester := &countingSuggester{}
			h, _ := newTestHandler(t, suggester)

			rec := do(t, h, http.MethodGet, `{`+tt.country+` "profile": {"bio": "I climb"}}`)

			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, 1, suggester.calls)
			require.Len(t, suggester.last.Dates, 1)
			assert.Equal(t, tt.want, suggester.last.Dates[0].Name())
			assert.NotContains(t, suggester.last.Dates[0].User(), "photos")
			assert.NotContains(t, suggester.last.Dates[0], "distance_mi")
			assert.Equal(t, ai.StylePotential, suggester.last.Style)

			var got dating.SuggestionSet
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, "Board games", got.CommonDatesInterest)
		})
	}
}

func TestMissingFixtureReturnsNoData(t *testing.T) {
	suggester := &countingSuggester{}
	loader := fixtures.NewLoader(fixtures.Config{Dir: t.TempDir()}, nil)
	h := New(pipeline.New(pipeline.Deps{Fixtures: loader, Suggester: suggester}, pipeline.Options{}), Config{DefaultCountry: "de"}, nil)

	rec := do(t, h, http.MethodPost, `{"profile": {"bio": "hi"}}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"No data returned"}`, rec.Body.String())
	assert.Equal(t, 0, suggester.calls)
}

func TestProviderFailure(t *testing.T) {
	suggester := &countingSuggester{err: errors.New("quota exceeded")}
	h, _ := newTestHandler(t, suggester)

	rec := do(t, h, http.MethodPost, `{"profile": {"bio": "hi"}, "style": "businessman"}`)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assertCORS(t, rec)
	assert.JSONEq(t, `{"error":"Failed to get suggestions"}`, rec.Body.String())
	assert.Equal(t, ai.StyleBusinessman, suggester.last.Style)
}

func TestPreflight(t *testing.T) {
	suggester := &countingSuggester{}
	h, optimizer := newTestHandler(t, suggester)

	rec := do(t, h, http.MethodOptions, "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assertCORS(t, rec)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, 0, optimizer.customCalls)
}

func TestMethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler(t, &countingSuggester{})

	rec := do(t, h, http.MethodDelete, "")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assertCORS(t, rec)
}
