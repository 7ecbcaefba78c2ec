package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskmanager/task-tracker/internal/core/domain"
)

// DefaultTokenTTL is used when NewTokenService receives a non-positive ttl.
const DefaultTokenTTL = 24 * time.Hour

// Clock returns the current instant. Tests substitute a fixed or advancing clock.
type Clock func() time.Time

// Now calls c, falling back to time.Now when c is nil.
func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// TokenService issues and verifies stateless HS256 tokens whose subject is a username.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	clock  Clock
}

// NewTokenService returns a TokenService. A nil clock means time.Now.
func NewTokenService(secret string, ttl time.Duration, clock Clock) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token service: empty signing secret")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, clock: clock}, nil
}

// TTL is the lifetime of every issued token.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for username that expires TTL after the current clock instant.
func (s *TokenService) Issue(username string) (string, error) {
	now := s.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

// ExtractSubject verifies token and returns its subject. Every failure wraps
// domain.ErrInvalidToken; the jwt cause stays in the chain so callers can
// tell an expired token apart when logging.
func (s *TokenService) ExtractSubject(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}

// Validate reports whether token is currently valid and names expectedUsername.
func (s *TokenService) Validate(token, expectedUsername string) bool {
	subject, err := s.ExtractSubject(token)
	if err != nil {
		return false
	}
	return subject == expectedUsername
}

func (s *TokenService) keyFunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
	return s.secret, nil
}

// IsExpired reports whether err came from an otherwise well-formed token that has expired.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
