package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/soupauth/internal/common"
	"github.com/dmitrijs2005/soupauth/internal/server/models"
	"github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const identityKey ctxKey = "identity"

const bearerPrefix = "Bearer "

// IdentityFromContext returns the identity set by the access-token check.
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(models.Identity)
	return identity, ok
}

// accessToken reads the access cookie, falling back to a bearer header.
func accessToken(r *http.Request) string {
	if c, err := r.Cookie(common.AccessTokenCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get(common.AuthorizationHeaderName)
	if strings.HasPrefix(h, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(h, bearerPrefix))
	}
	return ""
}

func (s *Server) requireAccessToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := accessToken(r)
		if token == "" {
			s.writeError(w, r, common.ErrMissingToken)
			return
		}

		identity, err := s.tokens.GetIdentityFromToken(token)
		if err != nil {
			s.writeError(w, r, common.ErrTokenInvalid)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, identity)))
	})
}

// requestLogger writes one line per request. Level follows the status class.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration_ms", float64(time.Since(start).Nanoseconds()) / float64(time.Millisecond),
			"request_id", middleware.GetReqID(r.Context()),
		}

		switch {
		case status >= http.StatusInternalServerError:
			s.logger.Error(r.Context(), "http_request", args...)
		case status >= http.StatusBadRequest:
			s.logger.Warn(r.Context(), "http_request", args...)
		default:
			s.logger.Info(r.Context(), "http_request", args...)
		}
	})
}
