// internal/pkg/auth/jwt.go
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/your-org/sithaphal-storefront/internal/config"
)

const (
	sessionTokenType = "session"
	subjectPrefix    = "session:"
)

// Claims represents the session token claims
type Claims struct {
	SessionID string `json:"session_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// SessionManager issues and validates signed guest session tokens
type SessionManager struct {
	config *config.Config
	now    func() time.Time
}

// NewSessionManager creates a new session manager
func NewSessionManager(cfg *config.Config) *SessionManager {
	return &SessionManager{
		config: cfg,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// NewSession creates a fresh session id and its token
func (m *SessionManager) NewSession() (sessionID, token string, err error) {
	sessionID = uuid.NewString()
	token, err = m.IssueToken(sessionID)
	return sessionID, token, err
}

// IssueToken signs a token for an existing session id
func (m *SessionManager) IssueToken(sessionID string) (string, error) {
	now := m.now()

	claims := &Claims{
		SessionID: sessionID,
		TokenType: sessionTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.Session.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.config.App.Name,
			Subject:   subjectPrefix + sessionID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.Session.Secret))
}

// ValidateToken parses a session token and returns its claims
func (m *SessionManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.config.Session.Secret), nil
	}, jwt.WithTimeFunc(m.now))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if claims.TokenType != sessionTokenType {
		return nil, fmt.Errorf("invalid token type: expected %s, got %s", sessionTokenType, claims.TokenType)
	}
	if claims.Subject != subjectPrefix+claims.SessionID {
		return nil, fmt.Errorf("token subject does not match session")
	}
	if _, err := uuid.Parse(claims.SessionID); err != nil {
		return nil, fmt.Errorf("invalid session id: %w", err)
	}

	return claims, nil
}

// ExtractTokenFromHeader extracts a token from a Bearer Authorization header
func ExtractTokenFromHeader(authHeader string) string {
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return token
	}
	return ""
}
