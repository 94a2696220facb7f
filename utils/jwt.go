package utils

import (
	"errors"
	"time"

	"marksync/config"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload of the signed session cookie. The core only
// ever sees the resolved subject identifier; email and name ride along for
// the profile endpoints.
type SessionClaims struct {
	Sub   string  `json:"sub"`
	Email string  `json:"email"`
	Name  *string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

func GenerateSessionToken(sub, email string, name *string) (string, error) {
	cfg := config.AppConfig.Session
	now := time.Now()

	claims := &SessionClaims{
		Sub:   sub,
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.ExpireHours) * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

func ParseSessionToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.AppConfig.Session.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Sub == "" {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}
