package config

import "errors"

// Sentinel kinds for configuration errors, usable with errors.Is.
var (
	ErrInvalidConfig = errors.New("invalid config")
)
