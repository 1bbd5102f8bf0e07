package client

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

	"vmctl/pkg/api"
	"vmctl/pkg/models"
	"vmctl/pkg/ports"
)

// Client talks to the vm http api.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the api at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// APIError is returned for any non 2xx response.
type APIError struct {
	StatusCode int
	Detail     json.RawMessage
}

// Error returns the error message.
func (e *APIError) Error() string {
	var msg string
	if err := json.Unmarshal(e.Detail, &msg); err == nil {
		return fmt.Sprintf("api returned %d: %s", e.StatusCode, msg)
	}

	var details []api.ValidationDetail
	if err := json.Unmarshal(e.Detail, &details); err == nil && len(details) > 0 {
		parts := make([]string, 0, len(details))
		for _, d := range details {
			parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(d.Loc, "."), d.Msg))
		}

		return fmt.Sprintf("api returned %d: %s", e.StatusCode, strings.Join(parts, "; "))
	}

	return fmt.Sprintf("api returned %d: %s", e.StatusCode, string(e.Detail))
}

// StartVM requests a new vm and returns its id.
func (c *Client) StartVM(ctx context.Context, input ports.StartVMInput) (string, error) {
	req := api.StartVMRequest{
		CPUCount:  &input.CPUCount,
		MemSizeGB: &input.MemSizeGB,
		Image:     &input.Image,
	}

	var resp api.StartVMResponse
	if err := c.do(ctx, http.MethodPost, "/vm/start", req, &resp); err != nil {
		return "", err
	}

	return resp.ID, nil
}

// StopVM stops the vm with the given id and returns its spec.
func (c *Client) StopVM(ctx context.Context, id string) (*api.StopVMResponse, error) {
	var resp api.StopVMResponse
	if err := c.do(ctx, http.MethodPost, "/vm/"+url.PathEscape(id)+"/stop", nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// GetVM returns the record of the vm with the given id.
func (c *Client) GetVM(ctx context.Context, id string) (*models.VMRecord, error) {
	var rec models.VMRecord
	if err := c.do(ctx, http.MethodGet, "/vm/"+url.PathEscape(id), nil, &rec); err != nil {
		return nil, err
	}

	return &rec, nil
}

// ListVMs returns every vm record.
func (c *Client) ListVMs(ctx context.Context) ([]*models.VMRecord, error) {
	var resp api.ListVMsResponse
	if err := c.do(ctx, http.MethodGet, "/vms", nil, &resp); err != nil {
		return nil, err
	}

	return resp.VMs, nil
}

// TimeDelta returns end - start in seconds as computed by the api.
func (c *Client) TimeDelta(ctx context.Context, start, end time.Time) (float64, error) {
	q := url.Values{
		"start": {start.Format(time.RFC3339Nano)},
		"end":   {end.Format(time.RFC3339Nano)},
	}

	var resp api.TimeDeltaResponse
	if err := c.do(ctx, http.MethodGet, "/time_delta?"+q.Encode(), nil, &resp); err != nil {
		return 0, err
	}

	return resp.Delta, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}

		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var detail struct {
			Detail json.RawMessage `json:"detail"`
		}

		if err := json.Unmarshal(data, &detail); err != nil || detail.Detail == nil {
			detail.Detail, _ = json.Marshal(strings.TrimSpace(string(data)))
		}

		return &APIError{StatusCode: resp.StatusCode, Detail: detail.Detail}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
