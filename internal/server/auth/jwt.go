// Package auth issues and verifies HS256 bearer tokens whose subject is the
// numeric user id. Tokens are not persisted and cannot be revoked; they stay
// valid until the embedded expiry.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/dmitrijs2005/cyberspace/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime of access tokens when none is configured.
const DefaultTTL = 15 * time.Minute

// Issuer mints and verifies tokens with one process-wide secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an Issuer. A non-positive ttl falls back to DefaultTTL.
func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: secret, ttl: ttl, now: time.Now}
}

// TTL reports the lifetime applied to issued tokens.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue returns a signed token for userID expiring after the issuer TTL.
func (i *Issuer) Issue(userID int64) (string, error) {
	return GenerateToken(userID, i.secret, i.now().Add(i.ttl))
}

// Verify returns the subject of a token.
//
// common.ErrTokenExpired is returned only for a correctly signed token past
// its expiry. Any other failure, including a missing or non-numeric subject,
// is common.ErrInvalidToken.
func (i *Issuer) Verify(token string) (int64, error) {
	return GetUserIDFromToken(token, i.secret, jwt.WithTimeFunc(i.now))
}

func GenerateToken(userID int64, secretKey []byte, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func GetUserIDFromToken(tokenString string, secretKey []byte, opts ...jwt.ParserOption) (int64, error) {
	claims := &jwt.RegisteredClaims{}

	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, common.ErrTokenExpired
		}
		return 0, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return 0, common.ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, common.ErrInvalidToken
	}

	return id, nil
}
