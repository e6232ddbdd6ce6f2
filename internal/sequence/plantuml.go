package sequence

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// maxSVGBytes caps how much of a server response is read.
const maxSVGBytes = 16 << 20

// PlantUMLClient compiles markup with a PlantUML server by posting it to
// the server's /svg endpoint.
type PlantUMLClient struct {
	baseURL string
	client  *retryablehttp.Client
}

// PlantUMLOption configures a PlantUMLClient.
type PlantUMLOption func(*PlantUMLClient)

// WithRetries sets how many times a failed request is retried. The
// default is 0.
func WithRetries(n int) PlantUMLOption {
	return func(c *PlantUMLClient) {
		c.client.RetryMax = n
	}
}

// WithRetryWait bounds the backoff between retries.
func WithRetryWait(minWait, maxWait time.Duration) PlantUMLOption {
	return func(c *PlantUMLClient) {
		c.client.RetryWaitMin = minWait
		c.client.RetryWaitMax = maxWait
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) PlantUMLOption {
	return func(c *PlantUMLClient) {
		c.client.HTTPClient = hc
	}
}

// WithClientLogger routes retry diagnostics to logger.
func WithClientLogger(logger *slog.Logger) PlantUMLOption {
	return func(c *PlantUMLClient) {
		c.client.Logger = logger
	}
}

// NewPlantUMLClient returns a client for the server at baseURL,
// e.g. "http://localhost:8080".
func NewPlantUMLClient(baseURL string, opts ...PlantUMLOption) *PlantUMLClient {
	client := retryablehttp.NewClient()
	client.RetryMax = 0
	client.Logger = nil // Disable logging

	c := &PlantUMLClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile posts markup to the server and returns the SVG it responds with.
func (c *PlantUMLClient) Compile(ctx context.Context, markup string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/svg", strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to create PlantUML request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("Accept", "image/svg+xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach PlantUML server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSVGBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read PlantUML response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("PlantUML server returned status %d: %s", resp.StatusCode, firstLine(body))
	}
	return body, nil
}

func firstLine(body []byte) string {
	s := strings.TrimSpace(string(body))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
