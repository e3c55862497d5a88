// Package store defines persistence-level sentinel errors shared by all backends.
package store

import "errors"

// Sentinel errors returned by store implementations.
// Services translate these into domain errors with user-facing messages.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
)
