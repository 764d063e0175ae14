package config

import "errors"

// Sentinel kinds for configuration errors.
var (
	ErrEmptyAddr        = errors.New("addr must not be empty")
	ErrInvalidHourRange = errors.New("calendar hour range is invalid")
	ErrInvalidUpload    = errors.New("max_upload_bytes must be positive")
)
