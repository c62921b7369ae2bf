// Package models holds the server-side domain types.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the persisted credential record. Salt is empty under the
// deployment-salt password scheme.
type User struct {
	ID           uuid.UUID
	UserName     string
	PasswordHash string
	Salt         string
	CreatedAt    time.Time
}

// Identity is what a successful login or a valid token proves.
type Identity struct {
	ID       uuid.UUID
	Username string
}

// Identity returns the public part of the record.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.UserName}
}
