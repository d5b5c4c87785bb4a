package nihreporter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchProjects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/projects/search", r.URL.Path)

		var body searchBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"Helix Biometrics"}, body.Criteria.OrgNames)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": [{
				"project_num": "R44GM123456",
				"project_title": "Portable biometric screening platform",
				"agency_ic_admin": {"name": "NIGMS"},
				"award_amount": 745000,
				"fiscal_year": 2024,
				"abstract_text": "Development of a field-deployable screening device."
			}],
			"meta": {"total": 1}
		}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	resp, err := client.SearchProjects(context.Background(), ProjectSearchRequest{
		OrgName: "Helix Biometrics",
		Limit:   10,
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	p := resp.Results[0]
	assert.Equal(t, "R44GM123456", p.ProjectNum)
	assert.Equal(t, "NIGMS", p.AgencyIC.Name)
	assert.Equal(t, 2024, p.FiscalYear)
	assert.Equal(t, 1, resp.Meta.Total)
}

func TestSearchProjectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`slow down`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.SearchProjects(context.Background(), ProjectSearchRequest{OrgName: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 429")
}

func TestSearchProjectsMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{broken`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.SearchProjects(context.Background(), ProjectSearchRequest{OrgName: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal response")
}
