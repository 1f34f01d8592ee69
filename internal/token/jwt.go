package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/couponhub/internal/model"
)

// Claims represents JWT claims of a session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID `json:"user_id"`
	IsAdmin   bool      `json:"adm"`
	TokenType string    `json:"typ"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
	ttl       time.Duration
	now       func() time.Time
}

// NewJWT creates a new JWT token manager with the provided secret key and token lifetime.
func NewJWT(secretKey string, ttl time.Duration) model.TokenManager {
	return &JWT{secretKey: secretKey, ttl: ttl, now: time.Now}
}

const typeSession = "session"

// GenerateSessionToken signs a token carrying the session identity.
func (j *JWT) GenerateSessionToken(claims model.SessionClaims) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        claims.SessionID.String(),
			Subject:   claims.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		UserID:    claims.UserID,
		IsAdmin:   claims.IsAdmin,
		TokenType: typeSession,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// ParseSessionToken validates a session token and extracts its identity.
func (j *JWT) ParseSessionToken(tokenString string) (model.SessionClaims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil {
		return model.SessionClaims{}, fmt.Errorf("failed to parse session token: %w", err)
	}
	if !token.Valid {
		return model.SessionClaims{}, fmt.Errorf("session token is invalid")
	}
	if claims.TokenType != typeSession {
		return model.SessionClaims{}, fmt.Errorf("token type mismatch: %s", claims.TokenType)
	}

	sessionID, err := uuid.Parse(claims.ID)
	if err != nil {
		return model.SessionClaims{}, fmt.Errorf("malformed session id: %w", err)
	}

	return model.SessionClaims{
		SessionID: sessionID,
		UserID:    claims.UserID,
		IsAdmin:   claims.IsAdmin,
	}, nil
}
