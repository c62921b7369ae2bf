// Package httpapi is the HTTP boundary of the auth service. It decodes form
// requests, delivers sessions as cookies and maps service errors to status
// codes.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/soupauth/internal/logging"
	"github.com/dmitrijs2005/soupauth/internal/server/models"
	"github.com/dmitrijs2005/soupauth/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 10 * time.Second

// CredentialService is the part of services.UserService the handlers use.
type CredentialService interface {
	Register(ctx context.Context, username, plaintext string) error
	Authenticate(ctx context.Context, username, plaintext string) (*models.Identity, error)
}

// SessionIssuer is the part of services.SessionService the handlers use.
type SessionIssuer interface {
	IssueSession(ctx context.Context, identity models.Identity) (*services.CookiePair, error)
	Rotate(ctx context.Context, refreshToken string) (*services.CookiePair, error)
}

// IdentityResolver turns an access token into the identity it was issued for.
type IdentityResolver interface {
	GetIdentityFromToken(token string) (models.Identity, error)
}

// Deps groups what NewServer needs. Metrics may be nil, in which case
// /metrics is not mounted.
type Deps struct {
	Users    CredentialService
	Sessions SessionIssuer
	Tokens   IdentityResolver
	Metrics  http.Handler
}

type Server struct {
	address  string
	logger   logging.Logger
	users    CredentialService
	sessions SessionIssuer
	tokens   IdentityResolver
	metrics  http.Handler
}

func NewServer(address string, l logging.Logger, deps Deps) *Server {
	return &Server{
		address:  address,
		logger:   l.With("module", "http_server"),
		users:    deps.Users,
		sessions: deps.Sessions,
		tokens:   deps.Tokens,
		metrics:  deps.Metrics,
	}
}

// Router builds the route table. Sign-up, login and refresh are public;
// everything else goes through the access-token check.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Post("/sign-up", s.SignUp)
	r.Post("/auth", s.Login)
	r.Post("/refresh", s.Refresh)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(s.requireAccessToken)
		r.Get("/me", s.Me)
	})

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-done
}
