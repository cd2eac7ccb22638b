package domain

import "fmt"

// Error types for consistent error handling across the ledger API.

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrStore indicates a failure in the underlying data store. The store
// client owns retries; callers surface this as a 500 without retrying.
type ErrStore struct {
	Op  string
	Err error
}

func (e *ErrStore) Error() string {
	return fmt.Sprintf("store error [%s]: %v", e.Op, e.Err)
}

func (e *ErrStore) Unwrap() error {
	return e.Err
}

// ErrRender indicates report generation failed. When rendering had
// already begun streaming, the connection is aborted rather than
// presenting a partial document as success.
type ErrRender struct {
	Format string
	Err    error
}

func (e *ErrRender) Error() string {
	return fmt.Sprintf("render error [%s]: %v", e.Format, e.Err)
}

func (e *ErrRender) Unwrap() error {
	return e.Err
}

// ErrUnauthorized indicates invalid credentials or token.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrForbidden indicates the user lacks permission for the operation.
type ErrForbidden struct {
	Action string
}

func (e *ErrForbidden) Error() string {
	return fmt.Sprintf("forbidden: %s", e.Action)
}

// ErrConflict indicates a resource already exists (e.g. duplicate email).
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}
