package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/soupauth/internal/common"
	"github.com/dmitrijs2005/soupauth/internal/logging"
	"github.com/dmitrijs2005/soupauth/internal/server/config"
	"github.com/dmitrijs2005/soupauth/internal/server/metrics"
	"github.com/dmitrijs2005/soupauth/internal/server/models"
	"github.com/google/uuid"
)

// RefreshCookieMaxAge is the browser-side lifetime of the refresh cookie. It
// is fixed and deliberately separate from the refresh token's own expiry.
const RefreshCookieMaxAge = 30 * 24 * time.Hour

// TokenCodec is the part of auth.Codec the session service needs.
type TokenCodec interface {
	GenerateToken(identity models.Identity, ttl time.Duration) (string, error)
	VerifyToken(token string) bool
	GetUsernameFromToken(token string) (string, error)
	GetUserIDFromToken(token string) (uuid.UUID, error)
}

// CookiePair is the access and refresh cookies of one session. Either both
// are returned or neither.
type CookiePair struct {
	Access  *http.Cookie
	Refresh *http.Cookie
}

// SessionService issues token cookies and rotates them on refresh. It keeps
// no state between calls: a token is valid as long as its signature and
// expiry are, so a rotated refresh token stays usable until it expires.
type SessionService struct {
	codec           TokenCodec
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	cookieSecure    bool
	logger          logging.Logger
	metrics         metrics.Recorder
}

func NewSessionService(codec TokenCodec, cfg *config.Config, logger logging.Logger, rec metrics.Recorder) *SessionService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &SessionService{
		codec:           codec,
		accessTokenTTL:  cfg.AccessTokenTTL,
		refreshTokenTTL: cfg.RefreshTokenTTL,
		cookieSecure:    cfg.CookieSecure,
		logger:          logger.With("module", "sessions"),
		metrics:         rec,
	}
}

// IssueSession mints a fresh access/refresh pair for identity.
func (s *SessionService) IssueSession(ctx context.Context, identity models.Identity) (*CookiePair, error) {
	access, err := s.codec.GenerateToken(identity, s.accessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: access token: %v", common.ErrorInternal, err)
	}
	refresh, err := s.codec.GenerateToken(identity, s.refreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: refresh token: %v", common.ErrorInternal, err)
	}

	s.metrics.RecordSessionIssued()
	s.logger.Debug(ctx, "session issued", "user_id", identity.ID.String())

	return &CookiePair{
		Access:  s.cookie(common.AccessTokenCookieName, access, "/", s.accessTokenTTL),
		Refresh: s.cookie(common.RefreshTokenCookieName, refresh, common.RefreshPath, RefreshCookieMaxAge),
	}, nil
}

// Rotate trades a valid refresh token for a brand-new pair. The identity is
// taken from the token's claims; the store is not consulted again.
// An empty value means no refresh cookie was sent.
func (s *SessionService) Rotate(ctx context.Context, refreshToken string) (*CookiePair, error) {
	if refreshToken == "" {
		s.metrics.RecordRotation(metrics.OutcomeRejected)
		return nil, common.ErrMissingToken
	}
	if !s.codec.VerifyToken(refreshToken) {
		s.metrics.RecordRotation(metrics.OutcomeRejected)
		return nil, common.ErrTokenInvalid
	}

	id, err := s.codec.GetUserIDFromToken(refreshToken)
	if err != nil {
		s.metrics.RecordRotation(metrics.OutcomeRejected)
		return nil, err
	}
	username, err := s.codec.GetUsernameFromToken(refreshToken)
	if err != nil {
		s.metrics.RecordRotation(metrics.OutcomeRejected)
		return nil, err
	}

	pair, err := s.IssueSession(ctx, models.Identity{ID: id, Username: username})
	if err != nil {
		s.metrics.RecordRotation(metrics.OutcomeError)
		return nil, err
	}
	s.metrics.RecordRotation(metrics.OutcomeSuccess)
	return pair, nil
}

func (s *SessionService) cookie(name, value, path string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		MaxAge:   maxAgeSeconds(maxAge),
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// maxAgeSeconds rounds up: a positive lifetime must never become 0, which
// net/http would drop and turn into a browser-session cookie.
func maxAgeSeconds(d time.Duration) int {
	return int((d + time.Second - 1) / time.Second)
}
