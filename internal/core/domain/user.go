package domain

import (
	"sort"
	"strings"
	"time"
)

// Role is a closed set of user roles. Use ParseRole to convert untrusted input.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// authorityPrefix is prepended to a role name to form its granted authority.
const authorityPrefix = "ROLE_"

// Authority is a granted permission derived from a Role.
type Authority string

// ParseRole converts s (case-insensitive) to a Role.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// Authority returns the authority granted by r, e.g. USER -> ROLE_USER.
func (r Role) Authority() Authority {
	return Authority(authorityPrefix + string(r))
}

// AuthorityAdmin is the authority that grants administrative access.
var AuthorityAdmin = RoleAdmin.Authority()

// User models a registered account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Roles        []Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole reports whether u has been granted role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AddRole grants role to u. Granting a role twice is a no-op.
func (u *User) AddRole(role Role) {
	if !u.HasRole(role) {
		u.Roles = append(u.Roles, role)
	}
}

// Authorities derives one authority per role, sorted so the result is deterministic.
func (u *User) Authorities() []Authority {
	out := make([]Authority, 0, len(u.Roles))
	seen := make(map[Authority]struct{}, len(u.Roles))
	for _, r := range u.Roles {
		a := r.Authority()
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
