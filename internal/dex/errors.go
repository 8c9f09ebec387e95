package dex

import "errors"

var (
	ErrUnsupportedEvent = errors.New("unsupported event")
	ErrUnsupportedCall  = errors.New("unsupported call")
	ErrPoolMismatch     = errors.New("log is not from this pool")
	ErrStaleEvent       = errors.New("event older than snapshot")
	ErrTokenConflict    = errors.New("conflicting token metadata")
	ErrInvalidSnapshot  = errors.New("invalid pool snapshot")
)
