package storage

import "errors"

// ErrNotFound is returned when a requested persona does not exist.
var ErrNotFound = errors.New("not found")
