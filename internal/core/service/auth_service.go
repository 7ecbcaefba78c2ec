package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/taskmanager/task-tracker/internal/api/metrics"
	"github.com/taskmanager/task-tracker/internal/core/domain"
	"github.com/taskmanager/task-tracker/internal/core/ports"
	"github.com/taskmanager/task-tracker/internal/core/security"
)

// AuthService implements registration and login.
type AuthService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	clock  security.Clock
	log    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenIssuer, clock security.Clock, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, clock: clock, log: log}
}

// Register creates a USER account and returns a token for it.
func (s *AuthService) Register(ctx context.Context, username, password string) (string, *domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid_input").Inc()
		return "", nil, domain.ErrInvalidInput
	}

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return "", nil, fmt.Errorf("register: %w", err)
	}
	if exists {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "duplicate").Inc()
		return "", nil, domain.ErrDuplicateUsername
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := s.clock.Now().UTC()
	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Roles:        []domain.Role{domain.RoleUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Save(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "duplicate").Inc()
			return "", nil, err
		}
		return "", nil, fmt.Errorf("register: %w", err)
	}

	token, err := s.tokens.Issue(created.Username)
	if err != nil {
		return "", nil, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	s.log.Info().Str("username", created.Username).Int64("user_id", created.ID).Msg("user registered")
	return token, created, nil
}

// Login verifies credentials and returns a fresh token. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid_credentials").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid_credentials").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid_credentials").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return "", nil, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return token, user, nil
}
