// Package client is a Go SDK for the PriceHive REST API. It carries
// the session state of one signed-in user and the catalog lookups the
// shopping-list item flow needs.
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
	"sync"
	"time"
)

// APIError is a non-2xx response decoded from the server's
// {"detail": "..."} error body.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// IsUnauthorized reports whether err is a 401 API error.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Client is a low-level HTTP client for the PriceHive API. The bearer
// token is shared by all calls and is managed by SessionStore.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a Client for the given base URL, e.g.
// "https://pricehive.example.com". The /api prefix is added per call.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken sets the bearer token used by subsequent calls. An empty
// token means unauthenticated.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do performs one API call. path is relative to /api. body and out may
// be nil; out is filled from a 2xx JSON response.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api"+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var detail struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(data, &detail) == nil {
			apiErr.Detail = detail.Detail
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Login exchanges credentials for a token and profile.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	var out TokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns a ready session.
func (c *Client) Register(ctx context.Context, name, email, password string) (*TokenResponse, error) {
	var out TokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Me fetches the profile for the current bearer token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout notifies the server. Callers treat failures as non-fatal.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// ExchangeGoogleSession trades a one-time session token from the
// OAuth redirect fragment for an access token.
func (c *Client) ExchangeGoogleSession(ctx context.Context, sessionID string) (*TokenResponse, error) {
	var out TokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/google/session", map[string]string{
		"session_id": sessionID,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SellableProducts lists availability rows, optionally filtered by
// supermarket and product.
func (c *Client) SellableProducts(ctx context.Context, supermarketID, productID string) ([]SellableProduct, error) {
	q := url.Values{}
	if supermarketID != "" {
		q.Set("supermarket_id", supermarketID)
	}
	if productID != "" {
		q.Set("product_id", productID)
	}
	path := "/admin/sellable-products"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var out []SellableProduct
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SellableProductUnits lists the unit options valid for one sellable
// product.
func (c *Client) SellableProductUnits(ctx context.Context, sellableProductID string) ([]SellableProductUnit, error) {
	var out []SellableProductUnit
	path := "/admin/sellable-product-units/" + url.PathEscape(sellableProductID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ShoppingList fetches one list with enriched items.
func (c *Client) ShoppingList(ctx context.Context, listID string) (*ShoppingList, error) {
	var out ShoppingList
	path := "/shopping-lists/" + url.PathEscape(listID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateShoppingList applies a partial update. A non-nil Items field
// replaces the whole item sequence in order.
func (c *Client) UpdateShoppingList(ctx context.Context, listID string, update *ListUpdate) (*ShoppingList, error) {
	var out ShoppingList
	path := "/shopping-lists/" + url.PathEscape(listID)
	if err := c.do(ctx, http.MethodPut, path, update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UnreadNotificationCount fetches the unread-notification counter.
func (c *Client) UnreadNotificationCount(ctx context.Context) (int, error) {
	var out UnreadCount
	if err := c.do(ctx, http.MethodGet, "/notifications/unread-count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}
