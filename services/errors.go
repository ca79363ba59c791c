package services

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid admin password")
	ErrArchiveDisabled    = errors.New("round archive is not configured")
	ErrValidationFailed   = errors.New("validation failed")
)
