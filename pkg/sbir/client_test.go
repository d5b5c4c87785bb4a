package sbir

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchAwards(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/awards", r.URL.Path)
		assert.Equal(t, "Helix Biometrics", r.URL.Query().Get("firm"))
		assert.Equal(t, "5", r.URL.Query().Get("rows"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{
			"firm": "Helix Biometrics",
			"award_title": "Phase II biometric sensor array",
			"agency": "Department of Defense",
			"program": "SBIR",
			"phase": "Phase II",
			"abstract": "Miniaturized sensor fusion for identity verification.",
			"award_amount": "$1,499,998.00",
			"award_year": 2023
		}]`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	awards, err := client.SearchAwards(context.Background(), AwardSearchRequest{
		Firm:  "Helix Biometrics",
		Limit: 5,
	})
	require.NoError(t, err)
	require.Len(t, awards, 1)
	assert.Equal(t, "Department of Defense", awards[0].Agency)
	assert.Equal(t, 2023, awards[0].Year)
	assert.InDelta(t, 1499998.0, awards[0].AmountValue(), 0.01)
}

func TestSearchAwardsNotFoundMeansNone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	awards, err := client.SearchAwards(context.Background(), AwardSearchRequest{Firm: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, awards)
}

func TestSearchAwardsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.SearchAwards(context.Background(), AwardSearchRequest{Firm: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 503")
}

func TestAmountValue(t *testing.T) {
	tests := []struct {
		amount string
		want   float64
	}{
		{"$1,499,998.00", 1499998},
		{"750000", 750000},
		{" $99,999 ", 99999},
		{"", 0},
		{"N/A", 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Award{Amount: tt.amount}.AmountValue(), 0.01, tt.amount)
	}
}
