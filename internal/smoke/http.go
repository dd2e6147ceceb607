package smoke

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// do issues check as a GET tagged with a fresh request id.
func (c *HTTPClient) do(ctx context.Context, check Check, round int) Result {
	res := Result{Check: check, Round: round, RequestID: uuid.NewString()}
	start := time.Now()
	defer func() { res.Duration = time.Since(start) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+check.Path, http.NoBody)
	if err != nil {
		res.Err = fmt.Errorf("failed to create request: %w", err)
		return res
	}
	req.Header.Set("X-Request-ID", res.RequestID)

	resp, err := c.client.Do(req)
	if err != nil {
		res.Err = fmt.Errorf("request failed: %w", err)
		return res
	}
	defer func() { _ = resp.Body.Close() }()

	res.Status = resp.StatusCode
	res.Header = resp.Header
	res.Body, err = io.ReadAll(resp.Body)
	if err != nil {
		res.Err = fmt.Errorf("failed to read body: %w", err)
	}
	return res
}
