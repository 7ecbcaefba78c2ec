package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskmanager/task-tracker/internal/api/metrics"
	"github.com/taskmanager/task-tracker/internal/core/domain"
	"github.com/taskmanager/task-tracker/internal/core/security"
)

// TokenVerifier is the subset of the token service the gate needs.
type TokenVerifier interface {
	ExtractSubject(token string) (string, error)
	Validate(token, expectedUsername string) bool
}

// PrincipalResolver loads the principal behind a token subject.
type PrincipalResolver interface {
	Resolve(ctx context.Context, username string) (domain.Principal, error)
}

// Authenticate establishes the request principal from a bearer token.
// It never rejects a request: a missing, malformed, expired or unresolvable
// credential leaves the request anonymous and enforcement happens downstream.
func Authenticate(tokens TokenVerifier, resolver PrincipalResolver, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := req.Context()

			if _, ok := security.PrincipalFromContext(ctx); ok {
				return next(c)
			}

			token, ok := bearerToken(req.Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.AuthGateOutcomesTotal.WithLabelValues("anonymous").Inc()
				return next(c)
			}

			username, err := tokens.ExtractSubject(token)
			if err != nil {
				reason := "malformed"
				if security.IsExpired(err) {
					reason = "expired"
				}
				log.Debug().Err(err).Str("reason", reason).Str("path", c.Path()).Msg("token rejected, continuing anonymously")
				metrics.AuthGateOutcomesTotal.WithLabelValues("rejected").Inc()
				return next(c)
			}

			principal, err := resolver.Resolve(ctx, username)
			if err != nil {
				log.Debug().Err(err).Str("username", username).Msg("principal not resolved, continuing anonymously")
				metrics.AuthGateOutcomesTotal.WithLabelValues("rejected").Inc()
				return next(c)
			}

			if !tokens.Validate(token, principal.Username) {
				log.Debug().Str("username", username).Msg("token does not match principal, continuing anonymously")
				metrics.AuthGateOutcomesTotal.WithLabelValues("rejected").Inc()
				return next(c)
			}

			c.SetRequest(req.WithContext(security.WithPrincipal(ctx, principal)))
			metrics.AuthGateOutcomesTotal.WithLabelValues("authenticated").Inc()
			return next(c)
		}
	}
}

// bearerToken returns the credential of a "Bearer <token>" header value.
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
