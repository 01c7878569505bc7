package service

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidInput is returned when a request fails validation.
var ErrInvalidInput = errors.New("invalid input")
