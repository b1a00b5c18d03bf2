package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when a conditional insert finds a record
// under the same key.
var ErrAlreadyExists = errors.New("already exists")
