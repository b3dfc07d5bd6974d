package kv

import "errors"

// Sentinel errors for key-value operations.
var (
	// ErrQuotaExceeded is returned when a value exceeds the store's size limit.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrClosed is returned when a closed store is used.
	ErrClosed = errors.New("store closed")
)
