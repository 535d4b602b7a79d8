package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	PurposeSession = "session"
	PurposeVerify  = "verify"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type CustomClaims struct {
	RestaurantID uint   `json:"restaurant_id"`
	Email        string `json:"email"`
	Purpose      string `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenManager signs and parses HS256 tokens with a single secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

func (tm *TokenManager) TTL() time.Duration { return tm.ttl }

func (tm *TokenManager) GenerateToken(restaurantID uint, email, purpose string) (string, error) {
	now := time.Now()
	claims := &CustomClaims{
		RestaurantID: restaurantID,
		Email:        email,
		Purpose:      purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "restaurant-hub",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

func (tm *TokenManager) ParseToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return tm.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
