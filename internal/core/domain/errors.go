package domain

import "errors"

var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("access forbidden")
	ErrTaskNotFound       = errors.New("task not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidInput       = errors.New("invalid input")

	// ErrInvalidToken and ErrUnknownPrincipal are consumed by the authentication
	// middleware and never reach a client.
	ErrInvalidToken     = errors.New("invalid token")
	ErrUnknownPrincipal = errors.New("unknown principal")
)
