// Package auth issues and verifies session tokens and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers malformed, badly signed and expired tokens alike.
	ErrInvalidToken = errors.New("invalid token")
	// ErrSecretUnavailable is returned when no signing secret was configured.
	ErrSecretUnavailable = errors.New("token signing secret not configured")
)

// DefaultTokenTTL is the lifetime of a session token.
const DefaultTokenTTL = time.Hour

// Claims binds a token to one identity; the identity id travels in Subject.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens. It is stateless: a token
// stays valid until it expires and nothing is persisted server-side.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer returns a TokenIssuer for secret. A non-positive ttl means DefaultTokenTTL.
func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: secret, ttl: ttl, now: time.Now}
}

// Issue returns a signed token for userID that expires after the configured ttl.
func (t *TokenIssuer) Issue(userID string) (string, error) {
	if len(t.secret) == 0 {
		return "", ErrSecretUnavailable
	}
	if userID == "" {
		return "", errors.New("issue token: empty user id")
	}

	now := t.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded identity id.
// It never consults the credential store.
func (t *TokenIssuer) Verify(tokenStr string) (string, error) {
	if len(t.secret) == 0 {
		return "", ErrInvalidToken
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims,
		func(*jwt.Token) (interface{}, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
