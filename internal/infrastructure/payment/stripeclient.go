package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tailorcv/internal/shared/logger"
)

const defaultAPIBase = "https://api.stripe.com"

// StripeClient implements Gateway against the Stripe checkout API using
// form-encoded requests and bearer auth.
type StripeClient struct {
	apiBase    string
	secretKey  string
	httpClient *http.Client
	logger     logger.Interface
}

// StripeOption customizes the client.
type StripeOption func(*StripeClient)

// WithAPIBase points the client at a non-default API host, used in tests.
func WithAPIBase(base string) StripeOption {
	return func(c *StripeClient) {
		c.apiBase = strings.TrimRight(base, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) StripeOption {
	return func(c *StripeClient) {
		c.httpClient = hc
	}
}

func NewStripeClient(secretKey string, log logger.Interface, opts ...StripeOption) *StripeClient {
	c := &StripeClient{
		apiBase:   defaultAPIBase,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Gateway = (*StripeClient)(nil)

// sessionPayload mirrors the subset of the Stripe session object we read.
type sessionPayload struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentStatus string `json:"payment_status"`
	AmountTotal   int64  `json:"amount_total"`
	CustomerEmail string `json:"customer_email"`

	CustomerDetails struct {
		Email string `json:"email"`
	} `json:"customer_details"`

	LineItems struct {
		Data []struct {
			Price struct {
				ID string `json:"id"`
			} `json:"price"`
		} `json:"data"`
	} `json:"line_items"`
}

func (p *sessionPayload) toSession() *CheckoutSession {
	email := p.CustomerDetails.Email
	if email == "" {
		email = p.CustomerEmail
	}
	priceID := ""
	if len(p.LineItems.Data) > 0 {
		priceID = p.LineItems.Data[0].Price.ID
	}
	return &CheckoutSession{
		ID:            p.ID,
		URL:           p.URL,
		PaymentStatus: p.PaymentStatus,
		AmountTotal:   p.AmountTotal,
		CustomerEmail: email,
		PriceID:       priceID,
	}
}

func (c *StripeClient) CreateSession(ctx context.Context, params CreateSessionParams) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("line_items[0][price]", params.PriceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)

	payload, err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", form)
	if err != nil {
		return nil, err
	}
	return payload.toSession(), nil
}

func (c *StripeClient) GetSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	path := fmt.Sprintf("/v1/checkout/sessions/%s?expand[]=line_items", url.PathEscape(sessionID))

	payload, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return payload.toSession(), nil
}

func (c *StripeClient) do(ctx context.Context, method, path string, form url.Values) (*sessionPayload, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("processor request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read processor response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrSessionNotFound
	}
	if resp.StatusCode >= 400 {
		c.logger.Warnw("processor returned error status",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
		)
		return nil, fmt.Errorf("processor returned status %d", resp.StatusCode)
	}

	var payload sessionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode processor response: %w", err)
	}
	return &payload, nil
}
