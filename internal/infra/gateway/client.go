package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// httpClient is the shared plumbing for the collaborator gateways. Every call
// is bounded by the configured timeout; callers decide whether a failure is
// fatal (creation-time reads) or best-effort (post-commit notifications).
type httpClient struct {
	hc      *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *httpClient {
	return &httpClient{
		hc:      &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// doJSON issues the request and decodes a JSON body into out (when non-nil).
// The response status is returned for the caller to interpret; bodies beyond
// 1 MiB are rejected to keep a misbehaving collaborator from ballooning memory.
func (c *httpClient) doJSON(ctx context.Context, method, path string, in any, out any) (int, error) {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}
