package xword

import "errors"

// Position errors
var (
	// ErrOutOfBounds indicates that a coordinate lies outside the board.
	ErrOutOfBounds = errors.New("position out of bounds")

	// ErrCoordinateOutOfRange indicates that a coordinate does not fit in a span key field.
	ErrCoordinateOutOfRange = errors.New("coordinate out of key range")

	// ErrInvalidDimensions indicates a board width or height that is zero, negative or too large.
	ErrInvalidDimensions = errors.New("invalid board dimensions")

	// ErrSpanMismatch indicates a span whose endpoints share neither a row nor a column.
	ErrSpanMismatch = errors.New("span endpoints do not share a row or column")
)

// Mutation errors
var (
	// ErrInvalidTransition indicates a cell transition the engine does not define,
	// such as blocking a cell that is already blocked.
	ErrInvalidTransition = errors.New("invalid cell transition")

	// ErrInvalidValue indicates text that cannot be turned into a cell value.
	ErrInvalidValue = errors.New("invalid cell value")

	// ErrNotFound indicates that no word occupies the requested span.
	ErrNotFound = errors.New("word not found")
)

// ErrInvariantViolation indicates that the grid and a word index have
// desynchronized. It is a bug, never an expected runtime condition.
var ErrInvariantViolation = errors.New("invariant violation")
