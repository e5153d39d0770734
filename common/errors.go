package common

import (
	"fmt"
	"strings"
)

// ValidationError means the caller sent bad or incomplete input. It is
// user-correctable and maps to a 400 response.
type ValidationError struct {
	Message string
	Fields  []string
}

func NewValidationError(message string, fields ...string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
}

// StorageError means the tabular store was unreachable or misconfigured.
// Operator-correctable, maps to a 500 response.
type StorageError struct {
	Op    string
	Table string
	Err   error
}

func NewStorageError(op, table string, err error) *StorageError {
	return &StorageError{Op: op, Table: table, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s on %q: %v", e.Op, e.Table, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// UnauthorizedError maps to a 401 response.
type UnauthorizedError struct {
	Message string
}

func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

func (e *UnauthorizedError) Error() string { return e.Message }

// EmailError is best-effort only: always logged, never surfaced to the
// submitter, and never changes the outcome of a submission.
type EmailError struct {
	Err error
}

func (e *EmailError) Error() string { return fmt.Sprintf("email send: %v", e.Err) }

func (e *EmailError) Unwrap() error { return e.Err }
