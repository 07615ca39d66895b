package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrCourseNotFound  = fmt.Errorf("course %w", ErrNotFound)
	ErrVideoNotFound   = fmt.Errorf("video %w", ErrNotFound)
	ErrInvalidSchedule = errors.New("invalid schedule")
	ErrInvalidInput    = errors.New("invalid input")
)

// ErrMalformedStorage marks a persisted document that exists but cannot be decoded.
var ErrMalformedStorage = errors.New("malformed storage")
