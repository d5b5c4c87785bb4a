// Package sbir queries the SBIR.gov award lookup API.
package sbir

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.www.sbir.gov"

// Client searches SBIR/STTR awards by firm name.
type Client interface {
	SearchAwards(ctx context.Context, req AwardSearchRequest) ([]Award, error)
}

// AwardSearchRequest narrows the award search to a single firm.
type AwardSearchRequest struct {
	Firm  string
	Limit int
}

// Award is one SBIR/STTR award. The API returns dollar amounts as strings.
type Award struct {
	Firm     string `json:"firm"`
	Title    string `json:"award_title"`
	Agency   string `json:"agency"`
	Program  string `json:"program"` // "SBIR" or "STTR"
	Phase    string `json:"phase"`
	Abstract string `json:"abstract"`
	Amount   string `json:"award_amount"`
	Year     int    `json:"award_year"`
}

// AmountValue parses the award amount, stripping currency formatting.
// Returns 0 if the amount is absent or unparseable.
func (a Award) AmountValue() float64 {
	s := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(a.Amount))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
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

// WithRateLimit overrides the default request rate (2 req/s).
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

// NewClient creates an SBIR.gov API client. The API requires no key.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(2, 2),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) SearchAwards(ctx context.Context, req AwardSearchRequest) ([]Award, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "sbir: rate limit")
		}
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 25
	}
	q := url.Values{}
	q.Set("firm", req.Firm)
	q.Set("rows", strconv.Itoa(limit))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/awards?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "sbir: create request")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "sbir: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "sbir: read response")
	}

	// The API returns 404 with an empty body when a firm has no awards.
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("sbir: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var awards []Award
	if err := json.Unmarshal(respBody, &awards); err != nil {
		return nil, eris.Wrap(err, "sbir: unmarshal response")
	}

	return awards, nil
}
