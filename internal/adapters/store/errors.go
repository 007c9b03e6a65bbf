package store

import "errors"

// Sentinel kinds for store errors. These allow errors.Is/As from callers.
var (
	// ErrNotFound marks an unknown player ID.
	ErrNotFound = errors.New("player not found")
	// ErrUnavailable marks a transport-level failure reaching the
	// analytics store; batch runs surface it per player and continue.
	ErrUnavailable = errors.New("analytics store unavailable")
	// ErrClosed marks use of a store after Close.
	ErrClosed = errors.New("store closed")
)
