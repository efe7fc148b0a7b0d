// Package client talks to the session API on behalf of a signed-in user.
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
	"sync"
	"time"

	"clementus360/wellness-sessions/types"
)

var ErrUnauthorized = errors.New("unauthorized")

// Credentials holds the bearer token for one signed-in user. It is passed to
// the Client explicitly and cleared when the server rejects the token.
type Credentials struct {
	mu    sync.RWMutex
	token string
}

func NewCredentials(token string) *Credentials {
	return &Credentials{token: token}
}

func (c *Credentials) Token() string {
	if c == nil {
		return ""
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Credentials) Set(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Credentials) Clear() {
	c.Set("")
}

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if e.StatusCode == http.StatusNotFound {
		return types.ErrNotFound
	}
	return nil
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      *Credentials
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, creds *Credentials, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		creds:      creds,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.creds.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: res.StatusCode, Message: http.StatusText(res.StatusCode)}
		var payload types.ErrorResponse
		if err := json.NewDecoder(res.Body).Decode(&payload); err == nil && payload.ErrorMessage != "" {
			apiErr.Message = payload.ErrorMessage
		}
		if res.StatusCode == http.StatusUnauthorized && c.creds != nil {
			c.creds.Clear()
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// ListPublic returns published sessions. It works without credentials.
func (c *Client) ListPublic(ctx context.Context) ([]types.PublicSession, error) {
	var resp types.GetPublicSessionsResponse
	if err := c.do(ctx, http.MethodGet, "/sessions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

func (c *Client) ListMine(ctx context.Context) ([]types.SessionView, error) {
	var resp types.GetSessionsResponse
	if err := c.do(ctx, http.MethodGet, "/sessions/mine", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

func (c *Client) GetMine(ctx context.Context, id string) (types.SessionView, error) {
	var resp types.SessionResponse
	if err := c.do(ctx, http.MethodGet, "/sessions/mine/"+url.PathEscape(id), nil, &resp); err != nil {
		return types.SessionView{}, err
	}
	return resp.Session, nil
}

// SaveDraft creates a draft, or updates the session named by req.SessionID.
func (c *Client) SaveDraft(ctx context.Context, req types.SaveDraftRequest) (types.SessionView, error) {
	var resp types.SessionResponse
	if err := c.do(ctx, http.MethodPost, "/sessions/draft", req, &resp); err != nil {
		return types.SessionView{}, err
	}
	return resp.Session, nil
}

func (c *Client) Publish(ctx context.Context, id string) (types.SessionView, error) {
	var resp types.SessionResponse
	if err := c.do(ctx, http.MethodPost, "/sessions/publish", types.PublishRequest{SessionID: id}, &resp); err != nil {
		return types.SessionView{}, err
	}
	return resp.Session, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/sessions/mine/"+url.PathEscape(id), nil, nil)
}
