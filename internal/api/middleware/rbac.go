package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/taskmanager/task-tracker/internal/api/metrics"
	"github.com/taskmanager/task-tracker/internal/core/domain"
	"github.com/taskmanager/task-tracker/internal/core/security"
)

// RequireAuthenticated rejects anonymous requests with domain.ErrUnauthenticated.
func RequireAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if p, ok := security.PrincipalFromContext(c.Request().Context()); !ok || p.Username == "" {
				metrics.AccessDeniedTotal.WithLabelValues("unauthenticated").Inc()
				return domain.ErrUnauthenticated
			}
			return next(c)
		}
	}
}

// RequireRole enforces role-based access control: the principal must hold
// the authority of at least one of the allowed roles.
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Authority]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r.Authority()] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := security.PrincipalFromContext(c.Request().Context())
			if !ok || p.Username == "" {
				metrics.AccessDeniedTotal.WithLabelValues("unauthenticated").Inc()
				return domain.ErrUnauthenticated
			}
			for _, a := range p.Authorities {
				if _, ok := allowed[a]; ok {
					return next(c)
				}
			}
			metrics.AccessDeniedTotal.WithLabelValues("forbidden").Inc()
			return domain.ErrForbidden
		}
	}
}
