package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samtetlow/nof1-sub000/internal/config"
	"github.com/samtetlow/nof1-sub000/internal/matcher"
	"github.com/samtetlow/nof1-sub000/internal/model"
	"github.com/samtetlow/nof1-sub000/internal/store"
)

func newTestServer(t *testing.T) (*server, http.Handler) {
	t.Helper()
	cfg = &config.Config{} // all enrichment sources disabled

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "serve.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() })

	pipe, err := buildPipelineWith(nil)
	require.NoError(t, err)

	s := &server{st: st, pipe: pipe, weights: matcher.DefaultWeights()}
	return s, s.routes()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServeHealth(t *testing.T) {
	_, h := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestServeCompanyCRUD(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/companies", model.Company{Name: "Nimbus Federal"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created model.Company
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)

	rec = doJSON(t, h, http.MethodGet, "/api/companies/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/companies/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/companies/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeCompanyRequiresName(t *testing.T) {
	_, h := newTestServer(t)
	rec := doJSON(t, h, http.MethodPost, "/api/companies", model.Company{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeParseAndSave(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/parse", map[string]any{
		"text": "Cloud Infrastructure Modernization Support. NAICS Code: 541512. Set-Aside: Small Business.",
		"save": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var sol model.Solicitation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sol))
	assert.Contains(t, sol.NAICSCodes, "541512")

	rec = doJSON(t, h, http.MethodGet, "/api/solicitations/"+sol.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServeParseRequiresText(t *testing.T) {
	_, h := newTestServer(t)
	rec := doJSON(t, h, http.MethodPost, "/api/parse", map[string]any{"text": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeMatchEndpoint(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/solicitations", model.Solicitation{
		ID:         "S1",
		Title:      "Cloud Support",
		NAICSCodes: []string{"541512"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	for _, name := range []string{"Alpha", "Beta"} {
		rec = doJSON(t, h, http.MethodPost, "/api/companies", model.Company{
			Name:       name,
			NAICSCodes: []string{"541512"},
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/solicitations/S1/match", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var results []model.MatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "Alpha", results[0].CompanyName, "ties break on name")
}

func TestServeRunAndOutcomes(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/solicitations", model.Solicitation{
		ID:         "S1",
		Title:      "Cloud Support",
		NAICSCodes: []string{"541512"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, h, http.MethodPost, "/api/companies", model.Company{
		ID: "C1", Name: "Nimbus Federal", NAICSCodes: []string{"541512"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/solicitations/S1/run", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var outcomes []model.PipelineOutcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcomes))
	require.Len(t, outcomes, 1)
	assert.Equal(t, "C1", outcomes[0].Match.CompanyID)

	rec = doJSON(t, h, http.MethodGet, "/api/solicitations/S1/outcomes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestServeRunWithoutCompanies(t *testing.T) {
	_, h := newTestServer(t)
	rec := doJSON(t, h, http.MethodPost, "/api/solicitations", model.Solicitation{ID: "S1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/solicitations/S1/run", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestServeWeightsRoundTrip(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/api/weights", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var w matcher.Weights
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &w))
	require.NoError(t, w.Validate())

	// Rejects weights that do not sum to 1.
	bad := matcher.DefaultWeights()
	bad[matcher.DimNAICS] = 0.9
	rec = doJSON(t, h, http.MethodPut, "/api/weights", bad)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Accepts a valid rebalance.
	good := matcher.DefaultWeights()
	good[matcher.DimNAICS] = 0.25
	good[matcher.DimCapabilities] = 0.20
	rec = doJSON(t, h, http.MethodPut, "/api/weights", good)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/weights", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &w))
	assert.InDelta(t, 0.25, w[matcher.DimNAICS], 1e-9)
}
