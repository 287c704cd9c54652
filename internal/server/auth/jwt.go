// Package auth implements the credential primitives of the session core:
// signed access tokens (HS256) and one-way password hashing.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/libkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the claim set carried by access tokens. The user's email rides in
// the registered Subject claim; no custom claims are needed.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateAccessToken builds a signed, time-bounded token binding email as the
// subject. Stateless: no store interaction.
func GenerateAccessToken(email string, secretKey []byte, issuer, audience string, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetSubjectFromToken verifies signature, expiry, issuer and audience, and
// returns the token subject (the user's email). Every verification failure is
// reported as common.ErrInvalidToken: a bad token is a bad token.
func GetSubjectFromToken(tokenString string, secretKey []byte, issuer, audience string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return secretKey, nil
		},
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
	)
	if err != nil {
		return "", common.ErrInvalidToken
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
