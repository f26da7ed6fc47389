package mcp

import (
	"errors"
	"fmt"

	"github.com/agencyops/backoffice/internal/domain/board"
	"github.com/agencyops/backoffice/internal/domain/collection"
	"github.com/agencyops/backoffice/internal/domain/schema"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var errUnknownModule = errors.New("unknown module")

// MapError maps domain errors to MCP error codes. Errors without a mapping
// pass through unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	var dup *collection.DuplicateLabelError
	switch {
	case errors.As(err, &dup):
		return &APIError{Code: "DUPLICATE_LABEL", Message: dup.Error(), RecoveryHint: "Pick a different name; labels are unique per module, case-insensitively"}
	case errors.Is(err, errUnknownModule):
		return &APIError{Code: "MODULE_NOT_FOUND", Message: "module not found", RecoveryHint: "Call list_modules for the configured names"}
	case errors.Is(err, collection.ErrGroupNotFound):
		return &APIError{Code: "GROUP_NOT_FOUND", Message: "group not found"}
	case errors.Is(err, collection.ErrItemNotFound):
		return &APIError{Code: "ITEM_NOT_FOUND", Message: "item not found"}
	case errors.Is(err, collection.ErrUnknownColumn):
		return &APIError{Code: "UNKNOWN_COLUMN", Message: err.Error(), RecoveryHint: "Define the column first with add_column"}
	case errors.Is(err, collection.ErrUnknownStatus):
		return &APIError{Code: "UNKNOWN_STATUS", Message: err.Error(), RecoveryHint: "Define the status first with add_status"}
	case errors.Is(err, collection.ErrFieldTypeMismatch):
		return &APIError{Code: "FIELD_TYPE_MISMATCH", Message: err.Error()}
	case errors.Is(err, schema.ErrColumnNotFound):
		return &APIError{Code: "COLUMN_NOT_FOUND", Message: "column not found"}
	case errors.Is(err, schema.ErrStatusNotFound):
		return &APIError{Code: "STATUS_NOT_FOUND", Message: "status not found"}
	case errors.Is(err, board.ErrColumnNotFound):
		return &APIError{Code: "BOARD_COLUMN_NOT_FOUND", Message: "board column not found"}
	case errors.Is(err, board.ErrTaskNotFound):
		return &APIError{Code: "TASK_NOT_FOUND", Message: "task not found"}
	case errors.Is(err, collection.ErrInvalidInput),
		errors.Is(err, schema.ErrInvalidInput),
		errors.Is(err, board.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return err
	}
}
