package apiclient

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
)

// Config holds backend connection settings.
type Config struct {
	BaseURL string        `env:"API_BASE_URL" envDefault:"http://localhost:8000"`
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, e.g. for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// Client talks to the storefront backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a backend client.
func New(cfg Config, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Login posts form-encoded credentials and returns the issued token and user.
// Bad credentials surface as ErrUnauthorized with the backend's detail text.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/login",
		strings.NewReader(form.Encode()))
	if err != nil {
		return LoginResult{}, errors.Join(ErrUnreachable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var result LoginResult
	if err := c.do(req, &result); err != nil {
		return LoginResult{}, err
	}

	if result.AccessToken == "" || result.User.Email == "" {
		return LoginResult{}, fmt.Errorf("%w: login response missing token or user", ErrServer)
	}

	return result, nil
}

// VerifyToken checks the stored token against the license endpoint.
// An expired or invalid token surfaces as ErrUnauthorized.
func (c *Client) VerifyToken(ctx context.Context, token string) (VerifyResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/license/check", nil)
	if err != nil {
		return VerifyResult{}, errors.Join(ErrUnreachable, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var result VerifyResult
	if err := c.do(req, &result); err != nil {
		return VerifyResult{}, err
	}

	return result, nil
}

// PublicKey fetches the payment provider's public key.
func (c *Client) PublicKey(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/mercadopago/public-key", nil)
	if err != nil {
		return "", errors.Join(ErrUnreachable, err)
	}

	var result struct {
		PublicKey string `json:"public_key"`
	}
	if err := c.do(req, &result); err != nil {
		return "", err
	}

	if result.PublicKey == "" {
		return "", ErrMissingPublicKey
	}

	return result.PublicKey, nil
}

// CreateCheckout creates a payment checkout session for a product.
func (c *Client) CreateCheckout(ctx context.Context, token string, productID int64, plan string) (CheckoutSession, error) {
	payload, err := json.Marshal(map[string]any{
		"product_id": productID,
		"plano":      plan,
	})
	if err != nil {
		return CheckoutSession{}, errors.Join(ErrServer, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/criar-checkout",
		bytes.NewReader(payload))
	if err != nil {
		return CheckoutSession{}, errors.Join(ErrUnreachable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	var result CheckoutSession
	if err := c.do(req, &result); err != nil {
		return CheckoutSession{}, err
	}

	if result.RedirectURL() == "" {
		return CheckoutSession{}, ErrMissingCheckoutURL
	}

	return result, nil
}

// Products lists the product catalog.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/products", nil)
	if err != nil {
		return nil, errors.Join(ErrUnreachable, err)
	}

	var result []Product
	if err := c.do(req, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// do executes the request and decodes a success body into out, classifying
// every failure mode into the package's error kinds.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Join(ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return errors.Join(ErrUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Detail: decodeDetail(body)}

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			return errors.Join(ErrUnauthorized, apiErr)
		case resp.StatusCode >= 500:
			return errors.Join(ErrServer, apiErr)
		default:
			return apiErr
		}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: undecodable response body: %w", ErrServer, err)
	}

	return nil
}

// decodeDetail extracts the backend's "detail" message from an error body.
func decodeDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return strings.TrimSpace(string(body))
	}
	return payload.Detail
}
