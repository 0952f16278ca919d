package gdelt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the base URL for the GDELT 2.0 Doc API.
	DefaultBaseURL = "https://api.gdeltproject.org/api/v2/doc/doc"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 20 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	// GDELT throttles aggressive clients, so stay modest.
	DefaultRateLimit = 2

	// datetimeLayout is the Doc API's startdatetime/enddatetime format.
	datetimeLayout = "20060102150405"
)

// Client is a GDELT Doc API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates a new Doc API client. The API requires no key.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ArticleList performs an ArtList-mode search for the given boolean query
// string. Explicit date windows and relative timespans are mutually
// exclusive; when both are supplied the explicit window wins.
func (c *Client) ArticleList(ctx context.Context, query string, opts ...QueryOption) (*ArticleListResponse, error) {
	params := &queryParams{
		MaxRecords: 75,
	}
	for _, opt := range opts {
		opt(params)
	}

	values := url.Values{}
	values.Set("query", query)
	values.Set("mode", "ArtList")
	values.Set("format", "json")
	values.Set("maxrecords", strconv.Itoa(params.MaxRecords))
	if !params.Start.IsZero() && !params.End.IsZero() {
		values.Set("startdatetime", params.Start.Format(datetimeLayout))
		values.Set("enddatetime", params.End.Format(datetimeLayout))
	} else if params.Timespan != "" {
		values.Set("timespan", params.Timespan)
	}

	var result ArticleListResponse
	if err := c.get(ctx, values, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// get performs a GET request to the API.
func (c *Client) get(ctx context.Context, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &RateLimitError{RetryAfter: time.Second}
	}

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug().
			Str("query", params.Get("query")).
			Str("timespan", params.Get("timespan")).
			Str("startdatetime", params.Get("startdatetime")).
			Msg("GDELT Doc API request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Endpoint:   c.baseURL,
		}
	}

	// The Doc API reports query parse errors as plain text with status 200
	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "json") {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return &ContentTypeError{
			ContentType: contentType,
			Snippet:     strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
