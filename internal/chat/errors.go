package chat

import "errors"

var (
	// ErrEmptyMessage and ErrMessageTooLong reject input before any
	// resolver or store work happens.
	ErrEmptyMessage   = errors.New("message is empty")
	ErrMessageTooLong = errors.New("message exceeds maximum length")

	ErrTurnNotFound   = errors.New("turn not found")
	ErrRateLimited    = errors.New("session rate limit exceeded")
	ErrStorageFailure = errors.New("storage failure")
)
