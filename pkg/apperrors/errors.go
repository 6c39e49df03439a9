// Package apperrors defines sentinel errors shared across layers.
// Handlers map these to HTTP statuses; MCP tools map them to structured
// error results.
package apperrors

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidID           = errors.New("invalid identifier format")
	ErrValidation          = errors.New("validation failed")
	ErrDatabaseUnavailable = errors.New("database is not enabled")
)
