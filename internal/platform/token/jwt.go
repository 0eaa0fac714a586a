// Package token validates and issues the HMAC-signed bearer tokens that
// authenticate API callers.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "fiducia/pkg/domain-errors"
	"fiducia/pkg/domain"
)

// Claims is what the middleware needs from a validated token.
type Claims struct {
	UserID domain.UserID
}

// Validator checks HS256 bearer tokens.
type Validator struct {
	signingKey []byte
}

// NewValidator constructs a validator over the shared signing key.
func NewValidator(signingKey string) *Validator {
	return &Validator{signingKey: []byte(signingKey)}
}

// ValidateToken parses and verifies a token, returning its claims.
func (v *Validator) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid or expired token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "malformed token claims")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has no subject")
	}
	userID, err := domain.ParseUserID(sub)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "token subject is not a user id")
	}
	return &Claims{UserID: userID}, nil
}

// Issue signs a token for the given user. Used by tests and local tooling.
func (v *Validator) Issue(userID domain.UserID, ttl time.Duration) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID.String(),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	})
	signed, err := t.SignedString(v.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
