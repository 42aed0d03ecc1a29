package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the verified actor identity the API trusts on every call:
// user id, role and sub-type resolved at login time.
type Claims struct {
	Sub     int64  `json:"sub"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	SubType string `json:"sub_type"`
	jwt.RegisteredClaims
}

func NewAccessToken(sub int64, email, role, subType, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Sub:     sub,
		Email:   email,
		Role:    role,
		SubType: subType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Audience:  []string{"bookit-api"},
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func Parse(tokenString, secret string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}
	if claims, ok := tok.Claims.(*Claims); ok && tok.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
