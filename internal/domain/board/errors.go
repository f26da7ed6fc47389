package board

import "errors"

var (
	// ErrColumnNotFound indicates the column doesn't exist on the board.
	ErrColumnNotFound = errors.New("board column not found")
	// ErrTaskNotFound indicates the task doesn't exist on the board.
	ErrTaskNotFound = errors.New("task not found")
	// ErrInvalidInput indicates invalid input for board operations.
	ErrInvalidInput = errors.New("invalid board input")
)
