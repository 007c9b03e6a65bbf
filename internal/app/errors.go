package app

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNilStore      = errors.New("engine requires a store")
	ErrEnqueueFailed = errors.New("enqueue failed")
)
