package skill

import "errors"

// Sentinel kinds for skill table errors.
var (
	ErrUnknownCategory = errors.New("unknown skill category")
)
