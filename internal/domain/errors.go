package domain

import "errors"

// ErrNotConnected is returned by repositories that have no database handle.
var ErrNotConnected = errors.New("database not connected")

// NotFoundError reports a missing record; Resource names it.
type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string { return e.Resource + " not found" }

func (e NotFoundError) Unwrap() error { return e.Err }

// ValidationError rejects a request value.
type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

// ConflictError is a clash with current state: a duplicate plate or a
// running export.
type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string { return e.Resource + " conflict: " + e.Msg }

func (e ConflictError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}
