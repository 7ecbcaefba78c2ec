package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskmanager/task-tracker/internal/core/domain"
	"github.com/taskmanager/task-tracker/internal/core/ports"
)

// DefaultAccount is an account created at startup when missing.
type DefaultAccount struct {
	Username string
	Password string
	Roles    []domain.Role
}

// DefaultAccounts are the accounts seeded on a fresh installation.
var DefaultAccounts = []DefaultAccount{
	{Username: "admin", Password: "admin123", Roles: []domain.Role{domain.RoleAdmin, domain.RoleUser}},
	{Username: "user", Password: "user123", Roles: []domain.Role{domain.RoleUser}},
}

// Seeder creates default accounts that do not exist yet.
type Seeder struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

func NewSeeder(users ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) *Seeder {
	return &Seeder{users: users, hasher: hasher, log: log}
}

// Seed creates each missing account and leaves existing ones untouched.
func (s *Seeder) Seed(ctx context.Context, accounts []DefaultAccount) error {
	for _, acc := range accounts {
		exists, err := s.users.ExistsByUsername(ctx, acc.Username)
		if err != nil {
			return fmt.Errorf("seed %s: %w", acc.Username, err)
		}
		if exists {
			continue
		}

		hash, err := s.hasher.Hash(acc.Password)
		if err != nil {
			return fmt.Errorf("seed %s: hash password: %w", acc.Username, err)
		}

		now := time.Now().UTC()
		user := &domain.User{Username: acc.Username, PasswordHash: hash, CreatedAt: now, UpdatedAt: now}
		for _, r := range acc.Roles {
			user.AddRole(r)
		}
		if _, err := s.users.Save(ctx, user); err != nil {
			return fmt.Errorf("seed %s: %w", acc.Username, err)
		}
		s.log.Info().Str("username", acc.Username).Msg("default user created")
	}
	return nil
}
