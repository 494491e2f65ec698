package apperrors

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrTimerRunning = errors.New("timer is running")
	ErrTimerExpired = errors.New("timer expired")
	ErrStoreLocked  = errors.New("store is locked by another process")
)
