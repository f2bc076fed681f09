package domain

import "errors"

// Ledger and workflow failures. Every operation returns one of these on a
// validation rejection; callers branch on them, nothing is retried.
var (
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrRecordNotFound    = errors.New("record not found")
	ErrInvalidState      = errors.New("request already decided")
	ErrMissingField      = errors.New("missing required field")
)
