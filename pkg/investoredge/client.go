// Package investoredge provides a Go SDK for the Investor Edge earnings API.
package investoredge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 30 * time.Second

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 1 << 20
)

// Client provides access to the earnings backend. All calls are plain GETs
// with no authentication.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the HTTP client timeout. Zero disables it, leaving
// deadlines to the request context.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRateLimit caps outgoing requests per second. Values <= 0 leave the
// client unlimited.
func WithRateLimit(requestsPerSecond float64) ClientOption {
	return func(c *Client) {
		if requestsPerSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		burst := int(requestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

// NewClient creates a new client for the backend at baseURL. An empty
// baseURL selects DefaultBaseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.New(slog.DiscardHandler),
		limiter:    rate.NewLimiter(rate.Inf, 0),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// APIError is a non-200 response from the backend. Detail carries the
// server-supplied {"detail": ...} text when present, otherwise the raw body.
type APIError struct {
	StatusCode int
	Detail     string
	Endpoint   string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server returned %d (endpoint: %s)", e.StatusCode, e.Endpoint)
	}
	return fmt.Sprintf("server returned %d: %s (endpoint: %s)", e.StatusCode, e.Detail, e.Endpoint)
}

// IsTimeout reports whether err is a deadline expiry or a network timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// AsAPIError returns the *APIError in err's chain, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// get performs a rate-limited GET request and decodes the JSON body into
// result.
func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		// The limiter refuses up front when the next token lies past the
		// deadline; report that as the deadline it is.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("rate limit wait: %w", ctxErr)
		}
		if _, ok := ctx.Deadline(); ok {
			return fmt.Errorf("rate limit wait: %w", context.DeadlineExceeded)
		}
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "path", path, "error", err)
		return fmt.Errorf("failed to reach backend: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request", "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			StatusCode: resp.StatusCode,
			Detail:     errorDetail(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// errorDetail extracts the FastAPI-style detail text from an error body.
func errorDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil {
			return s
		}
		// Validation errors carry a list of objects.
		return string(payload.Detail)
	}
	return strings.TrimSpace(string(body))
}

// ListCompanies returns up to limit companies, filtered by search when it is
// non-empty.
func (c *Client) ListCompanies(ctx context.Context, limit int, search string) ([]Company, error) {
	resp, err := c.ListCompaniesPage(ctx, limit, search)
	if err != nil {
		return nil, err
	}
	return resp.Companies, nil
}

// ListCompaniesPage is ListCompanies with the paging totals.
func (c *Client) ListCompaniesPage(ctx context.Context, limit int, search string) (*CompaniesResponse, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if search != "" {
		params.Set("search", search)
	}

	var resp CompaniesResponse
	if err := c.get(ctx, "/api/companies", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetSummary retrieves the AI earnings summary for ticker.
func (c *Client) GetSummary(ctx context.Context, ticker string) (*Summary, error) {
	var s Summary
	if err := c.get(ctx, "/api/summaries/"+url.PathEscape(ticker), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetHistorical retrieves historical quarterly earnings for ticker.
func (c *Client) GetHistorical(ctx context.Context, ticker string) (*HistoricalData, error) {
	var h HistoricalData
	if err := c.get(ctx, "/api/historical/"+url.PathEscape(ticker), nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// GetTranscriptAnalysis retrieves the structured earnings-call analysis for
// ticker. A response without an analysis body returns (nil, nil).
func (c *Client) GetTranscriptAnalysis(ctx context.Context, ticker string) (*TranscriptAnalysis, error) {
	var resp TranscriptAnalysisResponse
	if err := c.get(ctx, "/api/transcript/"+url.PathEscape(ticker), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Analysis, nil
}

// GetTranscript retrieves the raw transcript material for ticker.
func (c *Client) GetTranscript(ctx context.Context, ticker string) (*Transcript, error) {
	var t Transcript
	if err := c.get(ctx, "/api/transcripts/"+url.PathEscape(ticker), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}
