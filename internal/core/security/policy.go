package security

import "github.com/taskmanager/task-tracker/internal/core/domain"

// CanAccessOwn reports whether p is the owner of a resource.
func CanAccessOwn(p domain.Principal, owner string) bool {
	return p.Username != "" && p.Username == owner
}

// IsAdmin reports whether p holds the administrator authority.
func IsAdmin(p domain.Principal) bool {
	return p.HasAuthority(domain.AuthorityAdmin)
}

// Authorize is the rule for mutating a task: the owner or any administrator.
func Authorize(p domain.Principal, owner string) bool {
	return CanAccessOwn(p, owner) || IsAdmin(p)
}
