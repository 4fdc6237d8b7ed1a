package config

import "errors"

var (
	// ErrNilConfig is returned when a nil pointer is passed to Load.
	ErrNilConfig = errors.New("config.nil_config")

	// ErrParseFailed is returned when environment parsing fails.
	ErrParseFailed = errors.New("config.parse_failed")
)
