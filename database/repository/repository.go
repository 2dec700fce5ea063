package repository

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors shared by all repositories. Services translate these
// into their own domain errors at the boundary.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
