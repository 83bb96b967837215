package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"xpvcc/internal/api"
)

// APIError is a non-success response from the daemon.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("daemon returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("daemon returned %d: %s", e.StatusCode, e.Message)
}

// Client provides HTTP access to the daemon.
type Client struct {
	base  *url.URL
	token string
	http  *http.Client
}

// New builds a client for address, which may be host:port or a full URL.
func New(address, token string) (*Client, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, errors.New("daemon address is required")
	}
	if !strings.Contains(address, "://") {
		address = "http://" + address
	}
	base, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("parse daemon address: %w", err)
	}
	return &Client{
		base:  base,
		token: strings.TrimSpace(token),
		http:  &http.Client{},
	}, nil
}

// Status retrieves the daemon status.
func (c *Client) Status(ctx context.Context) (*api.DaemonStatus, error) {
	var resp api.DaemonStatus
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Versions lists the supported editor versions.
func (c *Client) Versions(ctx context.Context) ([]api.VersionInfo, error) {
	var resp api.VersionListResponse
	if err := c.do(ctx, http.MethodGet, "/unity/versions", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Versions, nil
}

// Install dispatches an install and returns its completion token.
func (c *Client) Install(ctx context.Context, req api.InstallRequest) (*api.InstallResponse, error) {
	var resp api.InstallResponse
	if err := c.do(ctx, http.MethodPost, "/unity/install", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Tell confirms that the install for completionToken finished at path.
func (c *Client) Tell(ctx context.Context, path, completionToken string) (*api.ConfirmResponse, error) {
	req := api.ConfirmRequest{InstalledPath: path, CompletionToken: completionToken}
	var resp api.ConfirmResponse
	if err := c.do(ctx, http.MethodPost, "/unity/tell", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Installations lists confirmed installs.
func (c *Client) Installations(ctx context.Context) ([]api.Installation, error) {
	var resp api.InstallationListResponse
	if err := c.do(ctx, http.MethodGet, "/unity/installations", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Installations, nil
}

// PendingDispatches lists installs that have not been confirmed yet.
func (c *Client) PendingDispatches(ctx context.Context) ([]api.PendingDispatch, error) {
	var resp api.PendingDispatchListResponse
	if err := c.do(ctx, http.MethodGet, "/unity/dispatches", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Dispatches, nil
}

// Installation looks up one confirmed install. An empty host means the
// daemon's own platform.
func (c *Client) Installation(ctx context.Context, version, host string) (*api.Installation, error) {
	query := url.Values{}
	if host != "" {
		query.Set("host", host)
	}
	var resp api.InstallationResponse
	if err := c.do(ctx, http.MethodGet, "/unity/installations/"+url.PathEscape(version), query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Installation, nil
}

// WaitForStatus polls the status endpoint until it answers or timeout passes.
func (c *Client) WaitForStatus(ctx context.Context, timeout time.Duration) (*api.DaemonStatus, error) {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		status, err := c.Status(ctx)
		if err == nil {
			return status, nil
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
	if lastErr == nil {
		lastErr = errors.New("timeout waiting for daemon")
	}
	return nil, fmt.Errorf("daemon failed to start: %w", lastErr)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.base.JoinPath(path)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Header.Get("Content-Type"), data)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func errorMessage(contentType string, data []byte) string {
	if strings.HasPrefix(contentType, "application/json") {
		var payload api.ErrorResponse
		if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(data))
}
