package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicate         = errors.New("duplicate entry")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrStoreUnavailable  = errors.New("store unavailable")
)
