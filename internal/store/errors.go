package store

import "errors"

var (
	// ErrNotFound is returned when no row matches the given key.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an insert collides with a unique key,
	// e.g. registering a username that is already taken.
	ErrConflict = errors.New("already exists")
)
