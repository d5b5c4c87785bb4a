package uspto

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchPatents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/patent/", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		var body searchBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 10, body.Opts.Size)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"patents": [
				{"patent_id": "11234567", "patent_title": "Distributed sensor calibration", "patent_date": "2022-09-13"},
				{"patent_id": "11765432", "patent_title": "Adaptive signal filtering", "patent_date": "2024-01-02"}
			],
			"total_hits": 2
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := client.SearchPatents(context.Background(), PatentSearchRequest{
		Assignee: "Helix Biometrics",
		Limit:    10,
	})
	require.NoError(t, err)
	require.Len(t, resp.Patents, 2)
	assert.Equal(t, "11234567", resp.Patents[0].ID)
	assert.Equal(t, 2022, resp.Patents[0].Year())
	assert.Equal(t, 2024, resp.Patents[1].Year())
	assert.Equal(t, 2, resp.TotalHits)
}

func TestSearchPatentsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"invalid api key"}`))
	}))
	defer srv.Close()

	client := NewClient("bad-key", WithBaseURL(srv.URL))
	_, err := client.SearchPatents(context.Background(), PatentSearchRequest{Assignee: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 403")
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestPatentYearUnparseable(t *testing.T) {
	assert.Equal(t, 0, Patent{Date: "2022"}.Year())
}
