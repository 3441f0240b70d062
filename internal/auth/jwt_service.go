package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionTokenExpiry is the duration for which session tokens are valid.
const SessionTokenExpiry = 30 * 24 * time.Hour

// JWTService handles session token signing and validation.
type JWTService struct {
	secret []byte
}

// NewJWTService creates a new JWT service with the given signing secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
	}
}

// SignSession signs the token claims into a compact session token. The
// registered claims (exp, iat, nbf, jti) are stamped here so callers only
// supply identity claims.
func (s *JWTService) SignSession(claims jwt.MapClaims) (string, error) {
	now := time.Now()
	signed := make(jwt.MapClaims, len(claims)+4)
	for k, v := range claims {
		signed[k] = v
	}
	signed["exp"] = jwt.NewNumericDate(now.Add(SessionTokenExpiry))
	signed["iat"] = jwt.NewNumericDate(now)
	signed["nbf"] = jwt.NewNumericDate(now)
	if _, ok := signed["jti"]; !ok {
		signed["jti"] = uuid.New().String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, signed)
	return token.SignedString(s.secret)
}

// ValidateToken validates a session token and returns its claims.
func (s *JWTService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// ExtractTokenID extracts the token ID (JTI) from a session token.
func (s *JWTService) ExtractTokenID(tokenString string) (string, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return "", err
	}
	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return "", errors.New("token ID not found")
	}
	return jti, nil
}
