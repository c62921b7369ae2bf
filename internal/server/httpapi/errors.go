package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/soupauth/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps an error to a status code and the message the caller sees.
// Internal details never reach the response body.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrDuplicateIdentity):
		return http.StatusBadRequest, "User already exists"
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusBadRequest, "Invalid username or password"
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, common.ErrMissingToken):
		return http.StatusForbidden, "Token not found"
	case errors.Is(err, common.ErrTokenInvalid):
		return http.StatusForbidden, "Invalid token"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err.Error())
	}
	writeJSON(w, status, errorResponse{Error: msg})
}
