package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an update or lookup targets a missing record.
	ErrNotFound = errors.New("record not found")
	// ErrWriteFailure is matched by every *WriteError.
	ErrWriteFailure = errors.New("write failed")
	// ErrInvalidOption is returned when a vote names a recipe that is not on the poll.
	ErrInvalidOption = errors.New("recipe is not an option of this poll")
	// ErrEncodeFailure is returned when a record cannot be flattened into rows.
	ErrEncodeFailure = errors.New("failed to encode record")

	ErrInvalidPoll       = errors.New("invalid poll")
	ErrPollClosed        = errors.New("poll is not active")
	ErrInvalidTransition = errors.New("invalid poll status transition")
	ErrInvalidRecipe     = errors.New("invalid recipe")
	ErrInvalidUser       = errors.New("invalid user")
)

// WriteError reports a mutation the storage medium rejected. The whole
// operation was rolled back.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

func (e *WriteError) Is(target error) bool {
	return target == ErrWriteFailure
}
