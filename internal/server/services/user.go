// Package services contains server-side business logic. This file implements
// UserService, which registers users and checks login credentials.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/soupauth/internal/common"
	"github.com/dmitrijs2005/soupauth/internal/logging"
	"github.com/dmitrijs2005/soupauth/internal/server/metrics"
	"github.com/dmitrijs2005/soupauth/internal/server/models"
	"github.com/dmitrijs2005/soupauth/internal/server/password"
	"github.com/dmitrijs2005/soupauth/internal/server/repositories/users"
)

// decoyPassword is hashed once at startup. Logins for unknown users are
// checked against it so they cost one bcrypt comparison like everyone else.
const decoyPassword = "decoy-password-for-unknown-users"

// UserService provides credential operations:
// - Register: create users with a unique name
// - Authenticate: verify a username/password pair
type UserService struct {
	users   users.Repository
	hasher  password.Hasher
	logger  logging.Logger
	metrics metrics.Recorder

	decoyDigest string
	decoySalt   string
}

// NewUserService hashes the decoy password, so it fails only if the hasher does.
func NewUserService(repo users.Repository, hasher password.Hasher, logger logging.Logger, rec metrics.Recorder) (*UserService, error) {
	digest, salt, err := hasher.Hash(decoyPassword)
	if err != nil {
		return nil, fmt.Errorf("decoy hash: %w", err)
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &UserService{
		users:       repo,
		hasher:      hasher,
		logger:      logger.With("module", "users"),
		metrics:     rec,
		decoyDigest: digest,
		decoySalt:   salt,
	}, nil
}

// Register stores a new user. An existing name yields ErrDuplicateIdentity,
// whether it is seen by the lookup or by the store's unique insert.
func (s *UserService) Register(ctx context.Context, username, plaintext string) error {
	if strings.TrimSpace(username) == "" || plaintext == "" {
		s.metrics.RecordRegistration(metrics.OutcomeRejected)
		return fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}
	// Names are stored verbatim, so " alice" would otherwise be a second identity.
	if strings.TrimSpace(username) != username {
		s.metrics.RecordRegistration(metrics.OutcomeRejected)
		return fmt.Errorf("%w: username must not start or end with whitespace", common.ErrorValidation)
	}

	_, err := s.users.GetUserByLogin(ctx, username)
	switch {
	case err == nil:
		s.metrics.RecordRegistration(metrics.OutcomeRejected)
		return common.ErrDuplicateIdentity
	case !errors.Is(err, common.ErrorNotFound):
		s.metrics.RecordRegistration(metrics.OutcomeError)
		return fmt.Errorf("%w: lookup: %v", common.ErrorInternal, err)
	}

	digest, salt, err := s.hasher.Hash(plaintext)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			s.metrics.RecordRegistration(metrics.OutcomeRejected)
			return err
		}
		s.metrics.RecordRegistration(metrics.OutcomeError)
		return fmt.Errorf("%w: hash: %v", common.ErrorInternal, err)
	}

	user := &models.User{UserName: username, PasswordHash: digest, Salt: salt}
	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			s.metrics.RecordRegistration(metrics.OutcomeRejected)
			return common.ErrDuplicateIdentity
		}
		s.metrics.RecordRegistration(metrics.OutcomeError)
		return fmt.Errorf("%w: create: %v", common.ErrorInternal, err)
	}

	s.metrics.RecordRegistration(metrics.OutcomeSuccess)
	s.logger.Info(ctx, "user registered", "username", username, "user_id", user.ID.String())
	return nil
}

// Authenticate returns the identity behind a correct username/password pair.
// Unknown users and wrong passwords both yield ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, username, plaintext string) (*models.Identity, error) {
	user, err := s.users.GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(plaintext, s.decoyDigest, s.decoySalt)
			s.metrics.RecordLogin(metrics.OutcomeRejected)
			return nil, common.ErrInvalidCredentials
		}
		s.metrics.RecordLogin(metrics.OutcomeError)
		return nil, fmt.Errorf("%w: lookup: %v", common.ErrorInternal, err)
	}

	if !s.hasher.Verify(plaintext, user.PasswordHash, user.Salt) {
		s.metrics.RecordLogin(metrics.OutcomeRejected)
		return nil, common.ErrInvalidCredentials
	}

	s.metrics.RecordLogin(metrics.OutcomeSuccess)
	identity := user.Identity()
	return &identity, nil
}
