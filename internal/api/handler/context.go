package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/taskmanager/task-tracker/internal/core/domain"
	"github.com/taskmanager/task-tracker/internal/core/security"
)

// ctxPrincipal returns the principal established by the authentication gate
// and fails fast with domain.ErrUnauthenticated for anonymous requests.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	p, ok := security.PrincipalFromContext(c.Request().Context())
	if !ok || p.Username == "" {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return p, nil
}
