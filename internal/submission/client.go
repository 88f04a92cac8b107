package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stmarys-jajpur/admitform/internal/version"
)

const (
	// DefaultTimeout bounds one submission attempt
	DefaultTimeout = 30 * time.Second

	// ContentType is declared instead of application/json so that browser
	// based endpoints skip the CORS pre-flight. The body is still JSON.
	ContentType = "text/plain;charset=utf-8"

	// maxResponseBytes caps how much of a response body is read
	maxResponseBytes = 1 << 20
)

// ResultSuccess is the value of Response.Result for an accepted submission
const ResultSuccess = "success"

// Response is the endpoint's answer to a submission
type Response struct {
	Result string `json:"result"`
	Error  string `json:"error,omitempty"`
	Row    int    `json:"row,omitempty"` // Spreadsheet row, when the endpoint reports one
}

// Client posts submission payloads to the intake endpoint
type Client struct {
	// EndpointURL is the full URL of the intake script
	EndpointURL string

	// HTTPClient is the underlying HTTP client. It follows redirects, which
	// spreadsheet script endpoints answer through.
	HTTPClient *http.Client

	// UserAgent is sent with every request
	UserAgent string
}

// NewClient creates a client for endpoint with the default timeout
func NewClient(endpoint string) *Client {
	return &Client{
		EndpointURL: endpoint,
		HTTPClient:  &http.Client{Timeout: DefaultTimeout},
		UserAgent:   version.UserAgent("admitform"),
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// ValidateEndpoint checks that raw is an absolute http(s) URL
func ValidateEndpoint(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return NewValidationError("no submission endpoint is configured")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return NewValidationError(fmt.Sprintf("invalid endpoint URL: %v", err))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return NewValidationError(fmt.Sprintf("endpoint URL must use http or https, got %q", u.Scheme))
	}
	if u.Host == "" {
		return NewValidationError("endpoint URL has no host")
	}
	return nil
}

// Post performs exactly one POST of body and interprets the answer.
// There are no retries; callers re-invoke on user request.
//
// A non-2xx status yields an ErrTypeHTTP error, an unreadable body an
// ErrTypeParse error, and any result other than "success" an
// ErrTypeRejected error carrying the endpoint's error text.
func (c *Client) Post(ctx context.Context, body []byte) (*Response, error) {
	if err := ValidateEndpoint(c.EndpointURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.EndpointURL, bytes.NewReader(body))
	if err != nil {
		return nil, NewNetworkError("failed to create POST request", err)
	}
	req.Header.Set("Content-Type", ContentType)
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, NewNetworkError("POST request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, NewHTTPError(resp.StatusCode,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, NewNetworkError("failed to read response body", err)
	}

	var result Response
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, NewParseError("failed to parse JSON response", err)
	}

	if result.Result != ResultSuccess {
		return &result, NewRejectedError(result.Error)
	}

	return &result, nil
}
