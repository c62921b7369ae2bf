package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dmitrijs2005/soupauth/internal/common"
	"github.com/dmitrijs2005/soupauth/internal/logging"
	"github.com/dmitrijs2005/soupauth/internal/server/models"
	"github.com/dmitrijs2005/soupauth/internal/server/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUsers struct {
	registerFn     func(ctx context.Context, username, plaintext string) error
	authenticateFn func(ctx context.Context, username, plaintext string) (*models.Identity, error)
}

func (m *mockUsers) Register(ctx context.Context, username, plaintext string) error {
	if m.registerFn != nil {
		return m.registerFn(ctx, username, plaintext)
	}
	return nil
}

func (m *mockUsers) Authenticate(ctx context.Context, username, plaintext string) (*models.Identity, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(ctx, username, plaintext)
	}
	return nil, common.ErrInvalidCredentials
}

type mockSessions struct {
	issueFn  func(ctx context.Context, identity models.Identity) (*services.CookiePair, error)
	rotateFn func(ctx context.Context, refreshToken string) (*services.CookiePair, error)
}

func (m *mockSessions) IssueSession(ctx context.Context, identity models.Identity) (*services.CookiePair, error) {
	return m.issueFn(ctx, identity)
}

func (m *mockSessions) Rotate(ctx context.Context, refreshToken string) (*services.CookiePair, error) {
	return m.rotateFn(ctx, refreshToken)
}

type mockTokens struct {
	identity models.Identity
	err      error
	seen     string
}

func (m *mockTokens) GetIdentityFromToken(token string) (models.Identity, error) {
	m.seen = token
	return m.identity, m.err
}

func testPair() *services.CookiePair {
	return &services.CookiePair{
		Access:  &http.Cookie{Name: common.AccessTokenCookieName, Value: "acc", Path: "/"},
		Refresh: &http.Cookie{Name: common.RefreshTokenCookieName, Value: "ref", Path: common.RefreshPath},
	}
}

func newTestServer(deps Deps) *Server {
	if deps.Users == nil {
		deps.Users = &mockUsers{}
	}
	if deps.Tokens == nil {
		deps.Tokens = &mockTokens{err: common.ErrTokenInvalid}
	}
	return NewServer(":0", logging.Nop(), deps)
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

// --- tests ---

func TestSignUp_Created(t *testing.T) {
	var gotUser, gotPass string
	s := newTestServer(Deps{Users: &mockUsers{registerFn: func(_ context.Context, u, p string) error {
		gotUser, gotPass = u, p
		return nil
	}}})

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, postForm("/sign-up", url.Values{"user": {"alice"}, "password": {"p@ss1"}}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "alice", gotUser)
	assert.Equal(t, "p@ss1", gotPass)
	assert.Empty(t, rec.Result().Cookies(), "sign-up does not start a session")
}

func TestSignUp_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"duplicate", common.ErrDuplicateIdentity, http.StatusBadRequest, "User already exists"},
		{"validation", common.ErrorValidation, http.StatusBadRequest, "Invalid request"},
		{"internal", errors.New("db down"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(Deps{Users: &mockUsers{registerFn: func(context.Context, string, string) error {
				return tt.err
			}}})

			rec := httptest.NewRecorder()
			s.Router().ServeHTTP(rec, postForm("/sign-up", url.Values{"user": {"a"}, "password": {"b"}}))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, decodeError(t, rec))
		})
	}
}

func TestLogin_SetsBothCookies(t *testing.T) {
	ident := models.Identity{ID: uuid.New(), Username: "alice"}
	var issuedFor models.Identity
	s := newTestServer(Deps{
		Users: &mockUsers{authenticateFn: func(context.Context, string, string) (*models.Identity, error) {
			return &ident, nil
		}},
		Sessions: &mockSessions{issueFn: func(_ context.Context, id models.Identity) (*services.CookiePair, error) {
			issuedFor = id
			return testPair(), nil
		}},
	})

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, postForm("/auth", url.Values{"user": {"alice"}, "password": {"p@ss1"}}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ident, issuedFor)

	cookies := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		cookies[c.Name] = c
	}
	require.Contains(t, cookies, common.AccessTokenCookieName)
	require.Contains(t, cookies, common.RefreshTokenCookieName)
	assert.Equal(t, "acc", cookies[common.AccessTokenCookieName].Value)
	assert.Equal(t, "/refresh", cookies[common.RefreshTokenCookieName].Path)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	s := newTestServer(Deps{Sessions: &mockSessions{issueFn: func(context.Context, models.Identity) (*services.CookiePair, error) {
		t.Fatal("no session for bad credentials")
		return nil, nil
	}}})

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, postForm("/auth", url.Values{"user": {"bob"}, "password": {"x"}}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid username or password", decodeError(t, rec))
	assert.Empty(t, rec.Result().Cookies())
}

func TestLogin_IssueFailure(t *testing.T) {
	s := newTestServer(Deps{
		Users: &mockUsers{authenticateFn: func(context.Context, string, string) (*models.Identity, error) {
			return &models.Identity{ID: uuid.New(), Username: "alice"}, nil
		}},
		Sessions: &mockSessions{issueFn: func(context.Context, models.Identity) (*services.CookiePair, error) {
			return nil, common.ErrorInternal
		}},
	})

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, postForm("/auth", url.Values{"user": {"alice"}, "password": {"p"}}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestRefresh_PassesCookieValue(t *testing.T) {
	var got string
	s := newTestServer(Deps{Sessions: &mockSessions{rotateFn: func(_ context.Context, tok string) (*services.CookiePair, error) {
		got = tok
		return testPair(), nil
	}}})

	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	req.AddCookie(&http.Cookie{Name: common.RefreshTokenCookieName, Value: "old-refresh"})
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "old-refresh", got)
	assert.Len(t, rec.Result().Cookies(), 2)
}

func TestRefresh_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		cookie *http.Cookie
		err    error
		status int
	}{
		{"no cookie", nil, common.ErrMissingToken, http.StatusForbidden},
		{"bad token", &http.Cookie{Name: common.RefreshTokenCookieName, Value: "junk"}, common.ErrTokenInvalid, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			s := newTestServer(Deps{Sessions: &mockSessions{rotateFn: func(_ context.Context, tok string) (*services.CookiePair, error) {
				got = tok
				return nil, tt.err
			}}})

			req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()
			s.Router().ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Empty(t, rec.Result().Cookies())
			if tt.cookie == nil {
				assert.Empty(t, got)
			}
		})
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	s := newTestServer(Deps{})
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStatusFor_WrappedErrors(t *testing.T) {
	status, _ := statusFor(errors.Join(errors.New("ctx"), common.ErrTokenInvalid))
	assert.Equal(t, http.StatusForbidden, status)

	status, msg := statusFor(common.ErrorInternal)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.NotContains(t, msg, "internal error:")
}
