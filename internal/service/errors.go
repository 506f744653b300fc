// Package service holds the planner's business components.  Each exported
// operation opens its own transactional scope through repository.Store,
// loads the entities it needs explicitly, and returns either a result or an
// *Error whose Kind is one of the sentinels below.
package service

import (
	"errors"
	"fmt"
)

// Error kinds.  Handlers map them to 404, 409, 400 and 403.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrBadRequest = errors.New("bad request")
	ErrForbidden  = errors.New("forbidden")
)

// Error carries a kind plus a message safe to show to the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

// Unwrap lets errors.Is match the kind.
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) error   { return newError(ErrNotFound, format, args...) }
func conflict(format string, args ...any) error   { return newError(ErrConflict, format, args...) }
func badRequest(format string, args ...any) error { return newError(ErrBadRequest, format, args...) }
func forbidden(format string, args ...any) error  { return newError(ErrForbidden, format, args...) }
