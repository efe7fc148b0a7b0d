package supabase

import (
	"errors"
	"fmt"
	"time"

	"clementus360/wellness-sessions/types"

	"github.com/golang-jwt/jwt"
)

var ErrInvalidToken = errors.New("invalid token")

// GenerateTestJWT issues a Supabase-style access token for local use and tests.
func GenerateTestJWT(secret, userID, email string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"aud":   "authenticated",
		"role":  "authenticated",
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyJWT checks the signature and expiry of a Supabase access token and
// returns the caller it identifies.
func VerifyJWT(secret, tokenString string) (types.Caller, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return types.Caller{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return types.Caller{}, fmt.Errorf("%w: invalid JWT claims", ErrInvalidToken)
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return types.Caller{}, fmt.Errorf("%w: missing sub in token", ErrInvalidToken)
	}
	email, _ := claims["email"].(string)

	return types.Caller{UserID: sub, Email: email}, nil
}
