package errors

import "errors"

var (
	ErrNotFound  = errors.New("catalog item not found")
	ErrInvalidID = errors.New("invalid catalog ID format")
)
