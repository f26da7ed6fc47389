package collection

import (
	"errors"
	"fmt"
)

var (
	// ErrGroupNotFound indicates the group doesn't exist in the module.
	ErrGroupNotFound = errors.New("group not found")
	// ErrItemNotFound indicates the item doesn't exist in the module.
	ErrItemNotFound = errors.New("item not found")
	// ErrDuplicateLabel indicates another item already carries the label.
	ErrDuplicateLabel = errors.New("duplicate item label")
	// ErrUnknownColumn indicates a field references no defined column.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrFieldTypeMismatch indicates a field value doesn't match its column type.
	ErrFieldTypeMismatch = errors.New("field value does not match column type")
	// ErrUnknownStatus indicates a status field references no defined status.
	ErrUnknownStatus = errors.New("unknown status")
	// ErrInvalidInput indicates invalid input for collection operations.
	ErrInvalidInput = errors.New("invalid collection input")
)

// DuplicateLabelError reports a case-insensitive label collision anywhere in
// the module, naming the offending label for the caller.
type DuplicateLabelError struct {
	Label string
}

func (e *DuplicateLabelError) Error() string {
	return fmt.Sprintf("an item named %q already exists in this module", e.Label)
}

func (e *DuplicateLabelError) Unwrap() error {
	return ErrDuplicateLabel
}
