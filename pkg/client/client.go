// Package client is the Go client for the gridpack HTTP API.
//
// One method per server operation. Failure responses carry the server's
// error envelope; the client decodes it back into coded errors, so
// errors.IsNotFound works the same against a remote server as against a
// local store.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mhuels/gridpack/pkg/dashboard"
	"github.com/mhuels/gridpack/pkg/errors"
)

// Client provides access to a gridpack server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Health checks that the server is reachable and healthy.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return nil
}

// List retrieves all dashboards on the server, sorted by name.
func (c *Client) List(ctx context.Context) ([]*dashboard.Dashboard, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/dashboards", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var envelope struct {
		Dashboards []*dashboard.Dashboard `json:"dashboards"`
		Count      int                    `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return envelope.Dashboards, nil
}

// Get retrieves one dashboard by ID.
func (c *Client) Get(ctx context.Context, id string) (*dashboard.Dashboard, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.dashboardURL(id), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}
	return dashboard.ReadDashboard(resp.Body)
}

// Push uploads a document, creating or replacing the server copy. The
// returned bool reports whether the server created the document.
func (c *Client) Push(ctx context.Context, d *dashboard.Dashboard) (*dashboard.Dashboard, bool, error) {
	body, err := dashboard.MarshalDashboard(d)
	if err != nil {
		return nil, false, err
	}

	req, err := http.NewRequestWithContext(ctx, "PUT", c.dashboardURL(d.ID), bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, false, apiError(resp)
	}
	got, err := dashboard.ReadDashboard(resp.Body)
	if err != nil {
		return nil, false, err
	}
	return got, resp.StatusCode == http.StatusCreated, nil
}

// Delete removes a dashboard from the server.
func (c *Client) Delete(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, "DELETE", c.dashboardURL(id), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return apiError(resp)
	}
	return nil
}

// Reflow asks the server to recompute a dashboard's layout. A cols of 0
// keeps the document's column count.
func (c *Client) Reflow(ctx context.Context, id string, cols int) (*dashboard.Dashboard, error) {
	u := c.dashboardURL(id) + "/reflow"
	if cols > 0 {
		u += "?cols=" + strconv.Itoa(cols)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var envelope struct {
		Dashboard *dashboard.Dashboard `json:"dashboard"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return envelope.Dashboard, nil
}

func (c *Client) dashboardURL(id string) string {
	return c.baseURL + "/api/dashboards/" + url.PathEscape(id)
}

// apiError converts a failure response into a coded error. Responses
// that do not carry the envelope (proxies, panics) degrade to a plain
// error with the status and body.
func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var envelope struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Code != "" {
		return errors.New(errors.Code(envelope.Code), "%s", envelope.Error)
	}
	return fmt.Errorf("server error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
