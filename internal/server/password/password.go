// Package password hashes and verifies user passwords with bcrypt.
//
// Two salting schemes exist and exactly one is active per process:
//
//   - per-user: a random 20-character alphanumeric salt is generated for each
//     user, stored next to the digest and prepended to the password;
//   - deployment: one secret salt from configuration is prepended to every
//     password and nothing is stored per user.
//
// The salted password is condensed with HMAC-SHA256 (salt as key) before
// bcrypt, so neither the salt nor the password length eats into bcrypt's
// 72-byte input limit. bcrypt adds its own internal salt in both cases.
package password

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/soupauth/internal/common"
	"github.com/dmitrijs2005/soupauth/internal/server/config"
	"golang.org/x/crypto/bcrypt"
)

// SaltLength is the size of a per-user salt.
const SaltLength = 20

// Hasher computes and checks password digests. Verify never returns an
// error: any mismatch or malformed digest is simply false.
type Hasher interface {
	Hash(plaintext string) (digest, salt string, err error)
	Verify(plaintext, digest, salt string) bool
}

// New returns the hasher selected by cfg.PasswordScheme.
func New(cfg *config.Config) (Hasher, error) {
	switch cfg.PasswordScheme {
	case config.SchemePerUser:
		return NewPerUserSalt(cfg.BcryptCost), nil
	case config.SchemeDeployment:
		if cfg.PasswordSalt == "" {
			return nil, errors.New("deployment scheme requires a salt")
		}
		return NewDeploymentSalt(cfg.PasswordSalt, cfg.BcryptCost), nil
	default:
		return nil, fmt.Errorf("unknown password scheme %q", cfg.PasswordScheme)
	}
}

// PerUserSalt generates a fresh salt for every Hash call.
type PerUserSalt struct {
	cost    int
	newSalt func() (string, error)
}

func NewPerUserSalt(cost int) *PerUserSalt {
	return &PerUserSalt{
		cost:    cost,
		newSalt: func() (string, error) { return common.MakeRandAlphanumeric(SaltLength) },
	}
}

func (h *PerUserSalt) Hash(plaintext string) (string, string, error) {
	salt, err := h.newSalt()
	if err != nil {
		return "", "", fmt.Errorf("salt: %w", err)
	}
	digest, err := encode(salt, plaintext, h.cost)
	if err != nil {
		return "", "", err
	}
	return digest, salt, nil
}

func (h *PerUserSalt) Verify(plaintext, digest, salt string) bool {
	return matches(salt, plaintext, digest)
}

// DeploymentSalt prefixes every password with one process-wide secret.
type DeploymentSalt struct {
	secret string
	cost   int
}

func NewDeploymentSalt(secret string, cost int) *DeploymentSalt {
	return &DeploymentSalt{secret: secret, cost: cost}
}

// Hash returns an empty salt; nothing per user needs storing.
func (h *DeploymentSalt) Hash(plaintext string) (string, string, error) {
	digest, err := encode(h.secret, plaintext, h.cost)
	if err != nil {
		return "", "", err
	}
	return digest, "", nil
}

// Verify ignores the stored salt.
func (h *DeploymentSalt) Verify(plaintext, digest, _ string) bool {
	return matches(h.secret, plaintext, digest)
}

// preHash keys HMAC-SHA256 with salt over plaintext. The base64 form is 44
// bytes whatever the input size and contains no NUL bytes.
func preHash(salt, plaintext string) []byte {
	mac := hmac.New(sha256.New, []byte(salt))
	mac.Write([]byte(plaintext))
	sum := mac.Sum(nil)

	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum)
	return out
}

func encode(salt, plaintext string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword(preHash(salt, plaintext), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

func matches(salt, plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), preHash(salt, plaintext)) == nil
}
