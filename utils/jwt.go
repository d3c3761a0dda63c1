package utils

import (
	"errors"
	"fmt"
	"time"

	"survey-admin/config"
	"survey-admin/models"

	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims sind die Claims eines Admin-Session-Tokens.
type JWTClaims struct {
	Email       string `json:"email"`
	IsSuperuser bool   `json:"is_superuser"`
	jwt.RegisteredClaims
}

// GenerateToken erstellt ein signiertes Session-Token für ein Admin-Konto.
func GenerateToken(cfg *config.Config, acct models.AdminAccount) (string, error) {
	if cfg.JWTSecret == "" {
		return "", errors.New("JWT secret is not configured")
	}

	now := time.Now()
	claims := JWTClaims{
		Email:       acct.Email,
		IsSuperuser: acct.IsSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", acct.ID),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.JWTExpiryHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// VerifyToken prüft Signatur und Gültigkeit und gibt die Claims zurück.
func VerifyToken(cfg *config.Config, tokenStr string) (*JWTClaims, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT secret is not configured")
	}

	token, err := jwt.ParseWithClaims(tokenStr, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
