// Package auth holds the credential primitives of the account server: the
// JWT codec used for access and refresh tokens, the password hasher, and the
// generator of opaque mailed tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/timex"
	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

var ErrMalformedToken = errors.New("malformed token")

// Claims is the payload of access and refresh tokens. The subject is the
// user id as well; ID is a unique jti so two tokens minted in the same
// second for the same user still differ.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
	Email  string `json:"email"`
}

// Codec signs and checks HS256 tokens. Expiry is evaluated against clock.
type Codec struct {
	clock timex.Clock
}

func NewCodec(clock timex.Clock) *Codec {
	return &Codec{clock: clock}
}

// CreateToken signs claims with secret. Subject, issue time, expiry and jti
// are filled in here and override whatever claims carried.
func (c *Codec) CreateToken(claims Claims, ttl time.Duration, secret []byte, subject string) (string, error) {
	now := c.clock.Now()

	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        ulid.Make().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	s, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// Verify reports whether token is well formed, signed with secret and not
// expired. It never returns an error.
func (c *Codec) Verify(token string, secret []byte) bool {
	_, err := c.Parse(token, secret)
	return err == nil
}

// Parse verifies token and returns its claims.
func (c *Codec) Parse(token string, secret []byte) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithTimeFunc(c.clock.Now),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, ErrMalformedToken
	}
	return claims, nil
}

// Decode reads the claims of token without checking its signature or
// expiry. Only call it on a token that already passed Verify.
func (c *Codec) Decode(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return claims, nil
}
