// Package apperr holds sentinel errors shared by the read-side services.
package apperr

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
	ErrNotBuilt    = errors.New("catalog not built")
)
