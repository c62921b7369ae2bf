// Package client talks to the auth service over HTTP. Session cookies are
// kept in a cookie jar, so a successful Login makes later calls authenticated
// and Refresh sends the refresh cookie the server scoped to /refresh.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/soupauth/internal/common"
)

// Client is the command surface the CLI uses.
type Client interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
	Refresh(ctx context.Context) error
	Me(ctx context.Context) (*Identity, error)
	HasSession() bool
}

// Identity is what GET /me reports.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type errorBody struct {
	Error string `json:"error"`
}

type HTTPClient struct {
	base *url.URL
	http *http.Client
}

// NewHTTPClient targets the service root, e.g. http://127.0.0.1:8080.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("server url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("server url %q must be absolute", baseURL)
	}
	// The server scopes the refresh cookie to /refresh, so a path prefix
	// would keep the jar from ever sending it back.
	if base.Path != "" || base.RawQuery != "" || base.Fragment != "" {
		return nil, fmt.Errorf("server url %q must not have a path, query or fragment", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &HTTPClient{
		base: base,
		http: &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

func (c *HTTPClient) Register(ctx context.Context, username, password string) error {
	_, err := c.postForm(ctx, "/sign-up", credentials(username, password))
	return err
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) error {
	_, err := c.postForm(ctx, "/auth", credentials(username, password))
	return err
}

func (c *HTTPClient) Refresh(ctx context.Context) error {
	_, err := c.postForm(ctx, common.RefreshPath, nil)
	return err
}

func (c *HTTPClient) Me(ctx context.Context) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/me"), nil)
	if err != nil {
		return nil, err
	}
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var id Identity
	if err := json.Unmarshal(body, &id); err != nil {
		return nil, fmt.Errorf("decode identity: %w", err)
	}
	return &id, nil
}

// HasSession reports whether an unexpired access cookie is held.
func (c *HTTPClient) HasSession() bool {
	for _, ck := range c.http.Jar.Cookies(c.base) {
		if ck.Name == common.AccessTokenCookieName {
			return true
		}
	}
	return false
}

func credentials(username, password string) url.Values {
	return url.Values{"user": {username}, "password": {password}}
}

func (c *HTTPClient) endpoint(path string) string {
	return c.base.String() + path
}

func (c *HTTPClient) postForm(ctx context.Context, path string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

// do sends req and classifies the outcome: transport failures are
// ErrUnavailable, 403 is ErrUnauthorized and other 4xx are ErrRejected
// carrying the server's message.
func (c *HTTPClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode < http.StatusBadRequest:
		return body, nil
	case resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, message(body, resp.Status))
	case resp.StatusCode < http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: %s", ErrRejected, message(body, resp.Status))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, message(body, resp.Status))
	}
}

func message(body []byte, fallback string) string {
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil && eb.Error != "" {
		return eb.Error
	}
	return fallback
}
