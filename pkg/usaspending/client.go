// Package usaspending queries the USAspending.gov award search API.
package usaspending

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.usaspending.gov"

// Client searches federal award records by recipient.
type Client interface {
	SearchAwards(ctx context.Context, req AwardSearchRequest) (*AwardSearchResponse, error)
}

// AwardSearchRequest narrows the award search to a single recipient.
type AwardSearchRequest struct {
	RecipientName string
	Limit         int
}

// AwardRecord is one row from spending_by_award. Field names follow the
// API's display-name keys.
type AwardRecord struct {
	InternalID     json.Number `json:"internal_id"`
	AwardID        string      `json:"Award ID"`
	RecipientName  string      `json:"Recipient Name"`
	AwardingAgency string      `json:"Awarding Agency"`
	Description    string      `json:"Description"`
	Amount         float64     `json:"Award Amount"`
	StartDate      string      `json:"Start Date"` // YYYY-MM-DD
}

// Year returns the calendar year the award started, or 0 if unknown.
func (r AwardRecord) Year() int {
	t, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return 0
	}
	return t.Year()
}

// AwardSearchResponse is the response from POST /api/v2/search/spending_by_award/.
type AwardSearchResponse struct {
	Results []AwardRecord `json:"results"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the default request rate (5 req/s).
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		} else {
			c.limiter = nil
		}
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a USAspending API client. The API requires no key.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(5, 5),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// searchBody is the wire request for spending_by_award.
type searchBody struct {
	Filters searchFilters `json:"filters"`
	Fields  []string      `json:"fields"`
	Limit   int           `json:"limit"`
	Page    int           `json:"page"`
}

type searchFilters struct {
	RecipientSearchText []string `json:"recipient_search_text"`
	AwardTypeCodes      []string `json:"award_type_codes"`
}

var searchFields = []string{
	"Award ID", "Recipient Name", "Awarding Agency", "Description",
	"Award Amount", "Start Date",
}

func (c *httpClient) SearchAwards(ctx context.Context, req AwardSearchRequest) (*AwardSearchResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "usaspending: rate limit")
		}
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 25
	}
	body, err := json.Marshal(searchBody{
		Filters: searchFilters{
			RecipientSearchText: []string{req.RecipientName},
			AwardTypeCodes:      []string{"A", "B", "C", "D"},
		},
		Fields: searchFields,
		Limit:  limit,
		Page:   1,
	})
	if err != nil {
		return nil, eris.Wrap(err, "usaspending: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v2/search/spending_by_award/", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "usaspending: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "usaspending: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "usaspending: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("usaspending: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result AwardSearchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "usaspending: unmarshal response")
	}

	return &result, nil
}
