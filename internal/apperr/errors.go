// Package apperr defines sentinel errors shared across service boundaries.
package apperr

import "errors"

// ErrNotFound marks lookups that matched neither a slug nor an identifier.
// The read-only surface has no use for conflict or already-exists errors.
var ErrNotFound = errors.New("not found")
