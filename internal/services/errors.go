// internal/services/errors.go
package services

import "errors"

// Error taxonomy shared by all services. Handlers map these to HTTP
// outcomes with errors.Is; anything else is a server error.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation failed")
)
