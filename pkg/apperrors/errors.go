package apperrors

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicateKey     = errors.New("natural key already exists")
	ErrParentNotFound   = errors.New("parent record not found")
	ErrValidationFailed = errors.New("dataset failed validation")
)
