// AngelaMos | 2026
// client.go

// Package client talks to the dashboard API on behalf of a single local
// user, keeping the session cache in step with what the server says.
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
	"strconv"
	"strings"
	"time"

	"github.com/carterperez-dev/templates/admin-dashboard/internal/access"
	"github.com/carterperez-dev/templates/admin-dashboard/internal/auth"
	"github.com/carterperez-dev/templates/admin-dashboard/internal/client/session"
	"github.com/carterperez-dev/templates/admin-dashboard/internal/core"
	"github.com/carterperez-dev/templates/admin-dashboard/internal/user"
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 1 << 16
)

type Client struct {
	baseURL string
	http    *http.Client
	cache   *session.Cache
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func New(baseURL string, cache *session.Cache, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		cache:   cache,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() *session.Cache {
	return c.cache
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *core.ErrorBody `json:"error"`
	Meta    *core.Meta      `json:"meta"`
}

func (c *Client) Register(ctx context.Context, req user.RegisterRequest) (*user.ProfileResponse, error) {
	var profile user.ProfileResponse
	if _, err := c.do(ctx, http.MethodPost, "/api/users", req, &profile, false); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &profile, nil
}

// Login exchanges credentials for a session proof and caches it.
func (c *Client) Login(ctx context.Context, email, password string) (*auth.AuthResponse, error) {
	var resp auth.AuthResponse
	req := auth.LoginRequest{Email: email, Password: password}
	if _, err := c.do(ctx, http.MethodPost, "/api/users/auth", req, &resp, false); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := c.cache.Save(ctx, resp.Token, resp.ExpiresAt, summaryFromAuth(resp.User)); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout revokes the proof server-side and always clears the local cache.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/api/users/logout", nil, nil, true)

	if clearErr := c.cache.Clear(ctx); clearErr != nil {
		return clearErr
	}
	if err != nil && !errors.Is(err, ErrUnauthenticated) {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (c *Client) Profile(ctx context.Context) (*user.ProfileResponse, error) {
	var profile user.ProfileResponse
	if _, err := c.do(ctx, http.MethodGet, "/api/users/profile", nil, &profile, true); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, c.cache.Refresh(ctx, summaryFromProfile(&profile))
}

func (c *Client) UpdateProfile(
	ctx context.Context,
	req user.UpdateProfileRequest,
) (*user.ProfileResponse, error) {
	var profile user.ProfileResponse
	if _, err := c.do(ctx, http.MethodPut, "/api/users/profile", req, &profile, true); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &profile, c.cache.Refresh(ctx, summaryFromProfile(&profile))
}

func (c *Client) UpdateProfileImage(ctx context.Context, image string) (*user.ProfileResponse, error) {
	var profile user.ProfileResponse
	req := user.UpdateProfileImageRequest{ProfileImage: image}
	if _, err := c.do(ctx, http.MethodPut, "/api/users/profile/image", req, &profile, true); err != nil {
		return nil, fmt.Errorf("update profile image: %w", err)
	}
	return &profile, nil
}

type ListOptions struct {
	Page     int
	PageSize int
	Search   string
	Role     access.Role
}

func (o ListOptions) query() string {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(o.PageSize))
	}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	if o.Role != 0 {
		q.Set("role", o.Role.String())
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (c *Client) ListUsers(
	ctx context.Context,
	opts ListOptions,
) ([]user.ProfileResponse, *core.Meta, error) {
	var users []user.ProfileResponse
	meta, err := c.do(ctx, http.MethodGet, "/api/users"+opts.query(), nil, &users, true)
	if err != nil {
		return nil, nil, fmt.Errorf("list users: %w", err)
	}
	return users, meta, nil
}

// do sends one request. When authed is set the cached proof is attached,
// and a 401 reply wipes the cache so it converges on the server's view.
func (c *Client) do(
	ctx context.Context,
	method, path string,
	body, out any,
	authed bool,
) (*core.Meta, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		if token := c.cache.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if authed && resp.StatusCode == http.StatusUnauthorized {
		if clearErr := c.cache.Clear(ctx); clearErr != nil {
			return nil, clearErr
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, decodeError(resp)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode data: %w", err)
		}
	}
	return env.Meta, nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&env); err == nil &&
		env.Error != nil {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
	}
	return apiErr
}

func summaryFromAuth(u auth.UserSummary) session.Summary {
	return session.Summary{
		UserID:      u.ID,
		FullName:    u.FullName,
		Email:       u.Email,
		AccessLevel: u.AccessLevel,
	}
}

func summaryFromProfile(p *user.ProfileResponse) session.Summary {
	return session.Summary{
		UserID:      p.ID,
		FullName:    p.FullName,
		Email:       p.Email,
		AccessLevel: p.AccessLevel,
	}
}
