package schema

import "errors"

var (
	// ErrColumnNotFound indicates the column doesn't exist in the module.
	ErrColumnNotFound = errors.New("column not found")
	// ErrStatusNotFound indicates the status doesn't exist in the module.
	ErrStatusNotFound = errors.New("status not found")
	// ErrInvalidInput indicates invalid input for schema operations.
	ErrInvalidInput = errors.New("invalid schema input")
)
