package security

import (
	"context"

	"github.com/taskmanager/task-tracker/internal/core/domain"
)

type principalKey struct{}

// WithPrincipal binds p to ctx for the remainder of a request.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal bound to ctx, if any.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(domain.Principal)
	return p, ok
}
