package errors

import "errors"

var (
	ErrNotFound  = errors.New("blocked time not found")
	ErrInvalidID = errors.New("invalid blocked time ID format")
)
