package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskmanager/task-tracker/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusByError is checked in order with errors.Is. An empty message means the
// error text itself is safe to return.
var statusByError = []struct {
	target error
	status int
	msg    string
}{
	{domain.ErrInvalidInput, http.StatusBadRequest, ""},
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "authentication required"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
	{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
	{domain.ErrTaskNotFound, http.StatusNotFound, "task not found"},
	{domain.ErrDuplicateUsername, http.StatusConflict, "username already exists"},
}

// NewHTTPErrorHandler renders every error as {"error": "..."}. Errors that do
// not map to a status are logged and reported as 500 without detail.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := statusFor(err)
		if code == http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func statusFor(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message)
	}
	for _, m := range statusByError {
		if !errors.Is(err, m.target) {
			continue
		}
		if m.msg == "" {
			return m.status, err.Error()
		}
		return m.status, m.msg
	}
	return http.StatusInternalServerError, "internal server error"
}
