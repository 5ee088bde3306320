// Package apperror defines the error kinds shared by every use case.
// Callers match kinds with errors.Is; the concrete *Error carries the
// failing operation and a human readable message.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrConflict          = errors.New("conflict")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrPersistence       = errors.New("persistence failure")
)

type Error struct {
	Kind error
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func Validation(op, format string, args ...any) error {
	return &Error{Kind: ErrValidation, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(op, what, id string) error {
	return &Error{Kind: ErrNotFound, Op: op, Msg: fmt.Sprintf("%s %q not found", what, id)}
}

func InsufficientStock(op string, requested, available int64) error {
	return &Error{
		Kind: ErrInsufficientStock,
		Op:   op,
		Msg:  fmt.Sprintf("requested %d, available %d", requested, available),
	}
}

func Conflict(op, format string, args ...any) error {
	return &Error{Kind: ErrConflict, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func PermissionDenied(op, format string, args ...any) error {
	return &Error{Kind: ErrPermissionDenied, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Persistence wraps a store failure. Errors that already carry a kind are
// returned unchanged so a NotFound raised inside a transaction survives.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return &Error{Kind: ErrPersistence, Op: op, Err: err}
}

// KindOf returns the sentinel kind of err, defaulting to ErrPersistence for
// errors raised outside this package.
func KindOf(err error) error {
	for _, kind := range []error{
		ErrValidation,
		ErrNotFound,
		ErrInsufficientStock,
		ErrConflict,
		ErrPermissionDenied,
		ErrPersistence,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrPersistence
}

// Message is the client facing text of err.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != ErrPersistence {
		if appErr.Op != "" {
			return appErr.Op + ": " + appErr.Msg
		}
		return appErr.Msg
	}
	return "internal error"
}
