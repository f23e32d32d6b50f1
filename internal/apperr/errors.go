// Package apperr holds the sentinel errors shared by services, repositories
// and handlers. Callers match them with errors.Is and map them to HTTP
// status codes at the edge.
package apperr

import "errors"

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrInvalidTransition is returned when an order status change violates the
// lifecycle graph.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrConflict indicates a uniqueness or state conflict, including a stale
// version token (HTTP 409).
var ErrConflict = errors.New("conflict")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")
