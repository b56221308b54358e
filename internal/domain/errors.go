package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrInsufficientData = errors.New("insufficient data")
	ErrOutOfOrder       = errors.New("timestamps not strictly increasing")
	ErrInvalidConfig    = errors.New("invalid configuration")
)
