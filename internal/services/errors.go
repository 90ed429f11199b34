package services

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoSender     = errors.New("file sender is required")
)
