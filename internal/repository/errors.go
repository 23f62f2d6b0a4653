package repository

import "errors"

// ErrNotFound is returned when no snapshot has been stored under a key yet.
var ErrNotFound = errors.New("not found")
