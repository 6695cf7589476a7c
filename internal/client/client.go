// Package client is a typed HTTP client for the storefront API.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

const (
	defaultTimeout  = 10 * time.Second
	maxErrorBody    = 4 << 10
	headerRequestID = "X-Request-ID"
)

// ErrCircuitOpen is returned without touching the network while the API is
// considered down.
var ErrCircuitOpen = gobreaker.ErrOpenState

type Config struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the default client; Timeout is ignored then.
	HTTPClient *http.Client
	// BreakerTimeout is how long the breaker stays open. Defaults to 30s.
	BreakerTimeout time.Duration
}

type response struct {
	status int
	body   []byte
}

// Client talks to the storefront API. It is safe for concurrent use.
// Requests fail fast while the breaker is open and are never retried.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*response]

	mu    sync.RWMutex
	token string
}

func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	breakerTimeout := cfg.BreakerTimeout
	if breakerTimeout <= 0 {
		breakerTimeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		breaker: gobreaker.NewCircuitBreaker[*response](gobreaker.Settings{
			Name:        "storefront-api",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     breakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

// SetToken sets the bearer token sent with every request. Empty clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// --- Auth ---

func (c *Client) Register(ctx context.Context, username, password string) error {
	return c.do(ctx, http.MethodPost, "/register", credentials{Username: username, Password: password}, nil)
}

// Login returns the session; it does not install the token.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, http.MethodPost, "/login", credentials{Username: username, Password: password}, &out)
	return out, err
}

func (c *Client) CreateUser(ctx context.Context, username, password string, isAdmin bool) (User, error) {
	var out userEnvelope
	err := c.do(ctx, http.MethodPost, "/users", credentials{Username: username, Password: password, IsAdmin: &isAdmin}, &out)
	return out.User, err
}

// --- Catalog ---

func (c *Client) ListProducts(ctx context.Context, f Filter) ([]Product, error) {
	q := url.Values{}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	if f.Tag != "" {
		q.Set("tag", f.Tag)
	}
	path := "/products"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out productList
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out.Products == nil {
		out.Products = []Product{}
	}
	return out.Products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (Product, error) {
	var out productEnvelope
	err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &out)
	return out.Product, err
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	var out productEnvelope
	err := c.do(ctx, http.MethodPost, "/products", in, &out)
	return out.Product, err
}

func (c *Client) UpdateProduct(ctx context.Context, id string, upd ProductUpdate) (Product, error) {
	var out productEnvelope
	err := c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(id), upd, &out)
	return out.Product, err
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil)
}

func (c *Client) RateProduct(ctx context.Context, id string, rate float64) (Product, error) {
	var out productEnvelope
	err := c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(id)+"/rate", rateBody{Rate: rate}, &out)
	return out.Product, err
}

// --- Collections ---

// ToggleFavorite returns whether the product is a favorite afterwards.
func (c *Client) ToggleFavorite(ctx context.Context, productID string) (bool, error) {
	var out favoriteToggle
	err := c.do(ctx, http.MethodPost, "/users/favorites", toggleBody{ProductID: productID}, &out)
	return out.IsFavorite, err
}

// ToggleCart returns whether the product is in the cart afterwards.
func (c *Client) ToggleCart(ctx context.Context, productID string) (bool, error) {
	var out cartToggle
	err := c.do(ctx, http.MethodPost, "/users/cart", toggleBody{ProductID: productID}, &out)
	return out.IsInCart, err
}

func (c *Client) Favorites(ctx context.Context) ([]string, error) {
	var out favoritesBody
	if err := c.do(ctx, http.MethodGet, "/users/favorites", nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Favorites), nil
}

func (c *Client) Cart(ctx context.Context) ([]string, error) {
	var out cartBody
	if err := c.do(ctx, http.MethodGet, "/users/cart", nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Cart), nil
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/users/cart/clear", nil, nil)
}

// do sends one request through the breaker and decodes a 2xx body into out.
// Only transport failures and 5xx answers count against the breaker.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		payload = b
	}

	resp, err := c.breaker.Execute(func() (*response, error) {
		return c.roundTrip(ctx, method, path, payload)
	})
	if err != nil {
		return err
	}
	if resp.status >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil || len(resp.body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte) (*response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}

	resp := &response{status: res.StatusCode, body: raw}
	if res.StatusCode >= http.StatusInternalServerError {
		return resp, decodeError(resp)
	}
	return resp, nil
}

func decodeError(resp *response) error {
	apiErr := &APIError{Status: resp.status}
	var eb errorBody
	if json.Unmarshal(resp.body, &eb) == nil && eb.Error != "" {
		apiErr.Message = eb.Error
	} else if len(resp.body) > 0 {
		b := resp.body
		if len(b) > maxErrorBody {
			b = b[:maxErrorBody]
		}
		apiErr.Message = strings.TrimSpace(string(b))
	}
	return apiErr
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
