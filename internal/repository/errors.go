package repository

import "errors"

// ErrNotFound is returned by all repositories when a row does not exist.
// Services translate it into their own domain errors.
var ErrNotFound = errors.New("record not found")
