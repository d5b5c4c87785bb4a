// Package nihreporter queries the NIH RePORTER project search API.
package nihreporter

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

const defaultBaseURL = "https://api.reporter.nih.gov"

// Client searches NIH-funded research projects by organization.
type Client interface {
	SearchProjects(ctx context.Context, req ProjectSearchRequest) (*ProjectSearchResponse, error)
}

// ProjectSearchRequest narrows the project search to a single organization.
type ProjectSearchRequest struct {
	OrgName string
	Limit   int
}

// Project is one NIH-funded research project.
type Project struct {
	ProjectNum   string  `json:"project_num"`
	Title        string  `json:"project_title"`
	AgencyIC     Agency  `json:"agency_ic_admin"`
	AwardAmount  float64 `json:"award_amount"`
	FiscalYear   int     `json:"fiscal_year"`
	AbstractText string  `json:"abstract_text"`
}

// Agency identifies the administering NIH institute or center.
type Agency struct {
	Name string `json:"name"`
}

// ProjectSearchResponse is the response from POST /v2/projects/search.
type ProjectSearchResponse struct {
	Results []Project `json:"results"`
	Meta    Meta      `json:"meta"`
}

// Meta carries pagination metadata.
type Meta struct {
	Total int `json:"total"`
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

// WithRateLimit overrides the default request rate (1 req/s, NIH's guidance).
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

// NewClient creates an NIH RePORTER API client. The API requires no key.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(1, 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type searchBody struct {
	Criteria searchCriteria `json:"criteria"`
	Limit    int            `json:"limit"`
	Offset   int            `json:"offset"`
}

type searchCriteria struct {
	OrgNames []string `json:"org_names"`
}

func (c *httpClient) SearchProjects(ctx context.Context, req ProjectSearchRequest) (*ProjectSearchResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "nihreporter: rate limit")
		}
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 25
	}
	body, err := json.Marshal(searchBody{
		Criteria: searchCriteria{OrgNames: []string{req.OrgName}},
		Limit:    limit,
	})
	if err != nil {
		return nil, eris.Wrap(err, "nihreporter: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/projects/search", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "nihreporter: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "nihreporter: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "nihreporter: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("nihreporter: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result ProjectSearchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "nihreporter: unmarshal response")
	}

	return &result, nil
}
