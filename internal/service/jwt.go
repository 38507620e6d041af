// Package service holds the optimizer API's ambient service-layer
// collaborators: token issuance/validation and API-key verification for
// service-to-service callers, grounded on the teacher's
// internal/service/jwt.go and the bcrypt usage in its auth_service.go.
package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTService signs and validates bearer tokens handed to trusted callers of
// the optimizer API. There is no end-user session here, so a token carries a
// ClientID identifying the calling service rather than a human user.
type JWTService struct {
	secret []byte
}

// NewJWTService creates a new JWTService with the given signing secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
	}
}

// Claims represents the JWT claims issued to a service caller.
type Claims struct {
	ClientID string `json:"client_id"`
	jwt.RegisteredClaims
}

// GenerateToken issues a token identifying clientID, valid for 24h.
func (j *JWTService) GenerateToken(clientID string) (string, error) {
	claims := Claims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

// ValidateToken validates a JWT token and returns the claims.
func (j *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	return j.ParseToken(tokenString)
}

// ParseToken parses and validates a JWT token, returning the claims.
func (j *JWTService) ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return j.secret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

