package domain

import (
	"errors"
	"fmt"
)

var ErrValidation = errors.New("validation failed")

// NotFoundError is returned by repositories when a lookup matches nothing.
// Key is whatever identified the lookup: a uuid, a platform id, a pair.
type NotFoundError struct {
	Entity string
	Key    interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.Key)
}

func NewNotFoundError(entity string, key interface{}) error {
	return &NotFoundError{Entity: entity, Key: key}
}

func IsNotFoundError(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// NewValidationError builds an error matching ErrValidation under errors.Is.
func NewValidationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}
