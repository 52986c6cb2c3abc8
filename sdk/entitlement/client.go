package entitlement

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client is the entitlement API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option is a function that configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		client.httpClient.Timeout = d
	}
}

// NewClient creates a new entitlement API client.
//
// Parameters:
//   - baseURL: The API base URL (e.g., "https://tailorcv.example.com")
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Confirm exchanges a completed checkout session for an access token.
func (c *Client) Confirm(ctx context.Context, sessionID string) (*ConfirmResult, error) {
	u := fmt.Sprintf("%s/api/checkout/confirm?session_id=%s", c.baseURL, url.QueryEscape(sessionID))

	var result ConfirmResult
	if err := c.doRequest(ctx, u, &result); err != nil {
		return nil, fmt.Errorf("confirm session: %w", err)
	}
	return &result, nil
}

// Recover looks up the latest purchase for an email address. It backs the
// "recover purchase" path when the session id was lost.
func (c *Client) Recover(ctx context.Context, email string) (*ConfirmResult, error) {
	u := fmt.Sprintf("%s/api/checkout/confirm?email=%s", c.baseURL, url.QueryEscape(email))

	var result ConfirmResult
	if err := c.doRequest(ctx, u, &result); err != nil {
		return nil, fmt.Errorf("recover purchase: %w", err)
	}
	return &result, nil
}

// Verify checks a stored access token against the server. The endpoint
// answers 200 for both outcomes; inspect VerifyResult.Valid.
func (c *Client) Verify(ctx context.Context, token string) (*VerifyResult, error) {
	u := fmt.Sprintf("%s/api/auth/verify?token=%s", c.baseURL, url.QueryEscape(token))

	var result VerifyResult
	if err := c.doRequest(ctx, u, &result); err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	return &result, nil
}

// doRequest performs a GET request and decodes the response.
func (c *Client) doRequest(ctx context.Context, url string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("api error: %s", apiErr.Error)
		}
		return fmt.Errorf("api error: status=%d body=%s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
