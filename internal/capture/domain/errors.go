package domain

import "errors"

var (
	ErrSessionNotFound   = errors.New("capture session not found")
	ErrInvalidTransition = errors.New("operation not allowed in current stage")
	ErrEmptyReflection   = errors.New("reflection text must not be empty")
	ErrUnknownField      = errors.New("unknown achievement field")
	ErrNoDraft           = errors.New("no structured draft to submit")
)
