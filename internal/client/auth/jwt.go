package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/relief/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ResetClaims are carried by a password-reset token. ID (jti) is a random
// UUID so two tokens minted in the same second never collide.
type ResetClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// GenerateResetToken signs a HS256 token for email that expires ttl after now.
func GenerateResetToken(email string, secretKey []byte, now time.Time, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ResetClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   "password-reset",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// expiryLeeway absorbs the truncation of exp to whole seconds.
const expiryLeeway = time.Second

// ParseResetToken verifies the signature and expiry as of now and returns
// the claims. Every failure wraps common.ErrInvalidOrExpiredToken.
func ParseResetToken(tokenString string, secretKey []byte, now time.Time) (*ResetClaims, error) {
	claims := &ResetClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(expiryLeeway),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token expired", common.ErrInvalidOrExpiredToken)
		}
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidOrExpiredToken, err)
	}

	if !token.Valid || claims.Email == "" {
		return nil, common.ErrInvalidOrExpiredToken
	}

	return claims, nil
}
