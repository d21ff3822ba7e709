package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Passthrough forwards a console API call to the platform backend verbatim
// and returns the status and raw JSON payload. The dataset/project/
// prediction views are thin wrappers over backend CRUD; the gateway adds
// nothing beyond the bearer header and the 401 policy.
func (c *Client) Passthrough(ctx context.Context, method, path string, body []byte) (int, json.RawMessage, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, nil, apiErrorFrom(resp)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, payload, nil
}

// Typed list wrappers used by the console shells.

func (c *Client) ListDatasets(ctx context.Context) (json.RawMessage, error) {
	_, payload, err := c.Passthrough(ctx, http.MethodGet, "/datasets", nil)
	return payload, err
}

func (c *Client) ListProjects(ctx context.Context) (json.RawMessage, error) {
	_, payload, err := c.Passthrough(ctx, http.MethodGet, "/projects", nil)
	return payload, err
}

func (c *Client) ListPredictions(ctx context.Context) (json.RawMessage, error) {
	_, payload, err := c.Passthrough(ctx, http.MethodGet, "/predictions", nil)
	return payload, err
}
