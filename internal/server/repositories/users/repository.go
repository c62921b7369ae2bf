// Package users provides the credential store: lookup by username and an
// atomic unique insert.
package users

import (
	"context"

	"github.com/dmitrijs2005/soupauth/internal/server/models"
)

// Repository is the UserStore contract. Create must reject a second user
// with the same name with common.ErrorAlreadyExists, even under concurrent
// inserts. GetUserByLogin returns common.ErrorNotFound for unknown names.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}
