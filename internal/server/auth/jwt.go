// Package auth signs and verifies the HS256 JWTs used for access and refresh
// tokens. Both roles share one format; only the lifetime differs.
package auth

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/soupauth/internal/common"
	"github.com/dmitrijs2005/soupauth/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the registered claims plus the user id. Subject carries the username.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

// Codec is safe for concurrent use; its key never changes after construction.
type Codec struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewCodec(secretKey []byte, issuer string) *Codec {
	return &Codec{secret: secretKey, issuer: issuer, now: time.Now}
}

// WithClock returns a copy of c that reads the time from now.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

// GenerateToken signs a token for identity that expires ttl after now.
// Timestamps have one-second granularity.
func (c *Codec) GenerateToken(identity models.Identity, ttl time.Duration) (string, error) {
	issued := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   identity.Username,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
		},
		UserID: identity.ID.String(),
	})

	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// VerifyToken reports whether the token is well formed, signed with our key
// and not expired. It never returns an error.
func (c *Codec) VerifyToken(tokenString string) bool {
	_, err := c.parse(tokenString)
	return err == nil
}

// GetUsernameFromToken re-verifies the token and returns its subject.
func (c *Codec) GetUsernameFromToken(tokenString string) (string, error) {
	claims, err := c.parse(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// GetUserIDFromToken re-verifies the token and returns the id claim.
func (c *Codec) GetUserIDFromToken(tokenString string) (uuid.UUID, error) {
	claims, err := c.parse(tokenString)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad id claim", common.ErrTokenInvalid)
	}
	return id, nil
}

// GetIdentityFromToken verifies once and returns both claims.
func (c *Codec) GetIdentityFromToken(tokenString string) (models.Identity, error) {
	claims, err := c.parse(tokenString)
	if err != nil {
		return models.Identity{}, err
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: bad id claim", common.ErrTokenInvalid)
	}
	return models.Identity{ID: id, Username: claims.Subject}, nil
}

func (c *Codec) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, common.ErrTokenInvalid
	}
	return claims, nil
}
