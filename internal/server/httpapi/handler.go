package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/soupauth/internal/common"
	"github.com/dmitrijs2005/soupauth/internal/server/services"
)

// Form field names.
const (
	fieldUser     = "user"
	fieldPassword = "password"
)

type meResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// SignUp registers a user.
// POST /sign-up (user, password)
func (s *Server) SignUp(w http.ResponseWriter, r *http.Request) {
	username, password := r.FormValue(fieldUser), r.FormValue(fieldPassword)

	if err := s.users.Register(r.Context(), username, password); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "username", username)
	w.WriteHeader(http.StatusCreated)
}

// Login checks credentials and sets a fresh pair of token cookies.
// POST /auth (user, password)
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	identity, err := s.users.Authenticate(r.Context(), r.FormValue(fieldUser), r.FormValue(fieldPassword))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	pair, err := s.sessions.IssueSession(r.Context(), *identity)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	setCookies(w, pair)
	w.WriteHeader(http.StatusOK)
}

// Refresh trades the refresh cookie for a new pair.
// POST /refresh
func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	var token string
	if c, err := r.Cookie(common.RefreshTokenCookieName); err == nil {
		token = c.Value
	}

	pair, err := s.sessions.Rotate(r.Context(), token)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	setCookies(w, pair)
	w.WriteHeader(http.StatusOK)
}

// Me reports who the access token belongs to.
// GET /me
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrMissingToken)
		return
	}

	writeJSON(w, http.StatusOK, meResponse{ID: identity.ID.String(), Username: identity.Username})
}

func setCookies(w http.ResponseWriter, pair *services.CookiePair) {
	http.SetCookie(w, pair.Access)
	http.SetCookie(w, pair.Refresh)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
