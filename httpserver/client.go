package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ErrorResponse is returned by Client for requests the server refused.
type ErrorResponse struct {
	StatusCode int

	// Outcome is set when the server settled the operation as failed.
	Outcome *OutcomeResponse
	Body    string
}

func (e *ErrorResponse) Error() string {
	if e.Outcome != nil && e.Outcome.Error != "" {
		return e.Outcome.Error
	}
	return fmt.Sprintf("name service returned %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Client talks to a remote name service API.
type Client struct {
	Client  *http.Client
	BaseURL string
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		Client:  http.DefaultClient,
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Register registers name and waits for the server to settle it.
func (c *Client) Register(ctx context.Context, name string) (*OutcomeResponse, error) {
	var resp OutcomeResponse
	if err := c.do(ctx, http.MethodPost, "/api/register/"+url.PathEscape(name), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Resolve looks up name.
func (c *Client) Resolve(ctx context.Context, name string) (*OutcomeResponse, error) {
	var resp OutcomeResponse
	if err := c.do(ctx, http.MethodGet, "/api/resolve/"+url.PathEscape(name), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// State returns the snapshot of panel.
func (c *Client) State(ctx context.Context, panel string) (*StateResponse, error) {
	var resp StateResponse
	if err := c.do(ctx, http.MethodGet, "/api/state/"+url.PathEscape(panel), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("could not initialize request: %w", err)
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("could not request name service: %w", err)
	}

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read name service response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		errResp := &ErrorResponse{StatusCode: resp.StatusCode, Body: string(body)}
		if resp.Header.Get("Content-Type") == "application/json" {
			var outcome OutcomeResponse
			if json.Unmarshal(body, &outcome) == nil && outcome.Outcome != "" {
				errResp.Outcome = &outcome
			}
		}
		return errResp
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("could not parse name service response: %w", err)
	}
	return nil
}
