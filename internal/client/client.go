// Package client talks to the lost & found API and keeps a local,
// non-authoritative view of the approved items.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spec-kit/lostfound-service/internal/api/dto"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util"
)

// Item is an item as returned by the API.
type Item = dto.ItemResponse

// User is an account as returned by the API.
type User = dto.UserResponse

// Transition is one entry of an item's history.
type Transition = dto.TransitionResponse

// Client is a thin JSON client for the HTTP API. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New builds a client for baseURL, e.g. http://localhost:8080/api.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithBearer returns a copy of c that authenticates with token.
func (c *Client) WithBearer(token string) *Client {
	out := *c
	out.token = token
	return &out
}

// Token returns the bearer token in use, if any.
func (c *Client) Token() string { return c.token }

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *errorBody      `json:"error"`
}

type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

// LoginResult is the payload of a successful login.
type LoginResult = dto.AuthResponse

// Register creates an account.
func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (*User, error) {
	var user User
	if _, err := c.do(ctx, http.MethodPost, "/auth/register", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var res LoginResult
	if _, err := c.do(ctx, http.MethodPost, "/auth/login", dto.LoginRequest{Email: email, Password: password}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Profile returns the account behind the current token.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var user User
	if _, err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListApproved returns the public catalogue.
func (c *Client) ListApproved(ctx context.Context) ([]Item, error) {
	return c.list(ctx, "/items/approved")
}

// ListAll returns every item regardless of status.
func (c *Client) ListAll(ctx context.Context) ([]Item, error) {
	return c.list(ctx, "/items")
}

// Pending returns the moderation queue.
func (c *Client) Pending(ctx context.Context) ([]Item, error) {
	return c.list(ctx, "/moderator/pending")
}

// Get fetches a single item.
func (c *Client) Get(ctx context.Context, id string) (*Item, error) {
	return c.item(ctx, http.MethodGet, "/items/"+id, nil)
}

// Report submits a new item for moderation.
func (c *Client) Report(ctx context.Context, req dto.CreateItemRequest) (*Item, error) {
	return c.item(ctx, http.MethodPost, "/items", req)
}

// Update patches an item.
func (c *Client) Update(ctx context.Context, id string, req dto.UpdateItemRequest) (*Item, error) {
	return c.item(ctx, http.MethodPut, "/items/"+id, req)
}

// Approve approves a pending item.
func (c *Client) Approve(ctx context.Context, id string) (*Item, error) {
	return c.item(ctx, http.MethodPut, "/moderator/approve/"+id, nil)
}

// Reject rejects a pending item.
func (c *Client) Reject(ctx context.Context, id string) (*Item, error) {
	return c.item(ctx, http.MethodPut, "/moderator/reject/"+id, nil)
}

// Claim claims an approved item for the caller.
func (c *Client) Claim(ctx context.Context, id string) (*Item, error) {
	return c.item(ctx, http.MethodPost, "/items/"+id+"/claim", nil)
}

// Delete removes an item.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/items/"+id, nil, nil)
	return err
}

// History lists the recorded transitions of an item.
func (c *Client) History(ctx context.Context, id string) ([]Transition, error) {
	var out []Transition
	if _, err := c.do(ctx, http.MethodGet, "/moderator/items/"+id+"/history", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) list(ctx context.Context, path string) ([]Item, error) {
	var out []Item
	if _, err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Item{}
	}
	return out, nil
}

func (c *Client) item(ctx context.Context, method, path string, body any) (*Item, error) {
	var out Item
	if _, err := c.do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do sends one request. A non-2xx answer is returned as *apperrors.DomainError
// rebuilt from the error envelope.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (string, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return "", fmt.Errorf("decode response: %w", err)
		}
	}

	if resp.StatusCode >= 300 {
		return "", responseError(resp.StatusCode, env.Error)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", fmt.Errorf("decode data: %w", err)
		}
	}
	return env.Message, nil
}

func responseError(status int, body *errorBody) error {
	if body == nil {
		return apperrors.NewDomainError(apperrors.CodeInternal, http.StatusText(status), status, nil)
	}
	code := body.Code
	if code == "" {
		code = apperrors.CodeInternal
	}
	return apperrors.NewDomainError(code, body.Message, status, body.Details)
}
