package domain

import "errors"

var (
	ErrInvalidDate  = errors.New("date must be an ISO calendar date (YYYY-MM-DD)")
	ErrInvalidTitle = errors.New("title must be non-empty and at most 80 characters")
	ErrMissingField = errors.New("every achievement field must be populated")
)
