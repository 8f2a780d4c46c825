package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// tokenHeader carries the access token in both directions
const tokenHeader = "auth-token"

// Client is an HTTP client for the API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken updates the client's token
func (c *Client) SetToken(token string) {
	c.token = token
}

// APIError is an error body returned by the server
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// Do performs an HTTP request and decodes a successful JSON body into result
func (c *Client) Do(ctx context.Context, method, path string, body, result any) (http.Header, error) {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if c.token != "" {
		req.Header.Set(tokenHeader, c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Error bodies are {"error": "..."}
	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return resp.Header, &APIError{Status: resp.StatusCode, Message: errResp.Error}
		}
		return resp.Header, &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return resp.Header, fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return resp.Header, nil
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, path string, result any) error {
	_, err := c.Do(ctx, http.MethodGet, path, nil, result)
	return err
}

// Post performs a POST request
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	_, err := c.Do(ctx, http.MethodPost, path, body, result)
	return err
}

// Put performs a PUT request
func (c *Client) Put(ctx context.Context, path string, body, result any) error {
	_, err := c.Do(ctx, http.MethodPut, path, body, result)
	return err
}

// Delete performs a DELETE request
func (c *Client) Delete(ctx context.Context, path string, result any) error {
	_, err := c.Do(ctx, http.MethodDelete, path, nil, result)
	return err
}
