// Package uspto queries the PatentsView patent search API for granted
// patents by assignee organization.
package uspto

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

const defaultBaseURL = "https://search.patentsview.org"

// Client searches granted patents by assignee.
type Client interface {
	SearchPatents(ctx context.Context, req PatentSearchRequest) (*PatentSearchResponse, error)
}

// PatentSearchRequest narrows the search to a single assignee organization.
type PatentSearchRequest struct {
	Assignee string
	Limit    int
}

// Patent is one granted patent record.
type Patent struct {
	ID    string `json:"patent_id"`
	Title string `json:"patent_title"`
	Date  string `json:"patent_date"` // YYYY-MM-DD
}

// Year returns the grant year, or 0 if the date is unparseable.
func (p Patent) Year() int {
	t, err := time.Parse("2006-01-02", p.Date)
	if err != nil {
		return 0
	}
	return t.Year()
}

// PatentSearchResponse is the response from POST /api/v1/patent/.
type PatentSearchResponse struct {
	Patents   []Patent `json:"patents"`
	TotalHits int      `json:"total_hits"`
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

// WithRateLimit overrides the default request rate (45 req/min).
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
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a PatentsView API client. An API key is required.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(0.75), 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type searchBody struct {
	Query  map[string]any `json:"q"`
	Fields []string       `json:"f"`
	Opts   searchOpts     `json:"o"`
}

type searchOpts struct {
	Size int `json:"size"`
}

func (c *httpClient) SearchPatents(ctx context.Context, req PatentSearchRequest) (*PatentSearchResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "uspto: rate limit")
		}
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 25
	}
	body, err := json.Marshal(searchBody{
		Query: map[string]any{
			"_contains": map[string]string{"assignees.assignee_organization": req.Assignee},
		},
		Fields: []string{"patent_id", "patent_title", "patent_date"},
		Opts:   searchOpts{Size: limit},
	})
	if err != nil {
		return nil, eris.Wrap(err, "uspto: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/patent/", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "uspto: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "uspto: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "uspto: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("uspto: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result PatentSearchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "uspto: unmarshal response")
	}

	return &result, nil
}
