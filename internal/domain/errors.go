package domain

import "errors"

// Error taxonomy shared by every calculator. Callers match with errors.Is;
// concrete errors wrap one of these with context.
var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotFound           = errors.New("not found")
	ErrInvariantViolation = errors.New("invariant violation")
)
