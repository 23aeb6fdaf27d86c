package service

import (
	"errors"
	"fmt"

	"clubreg/internal/forms"
)

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrRegistrationClosed   = errors.New("registration is not open for this event")
	ErrDeadlinePassed       = errors.New("registration deadline has passed")
	ErrNotAccessible        = errors.New("registration is not accessible")
	ErrEventPassed          = errors.New("event has already taken place")
	ErrCutoffPassed         = errors.New("attendance can no longer be changed this close to the event")
	ErrNotEligible          = errors.New("registration is not eligible for this change")
	ErrAlreadyReviewed      = errors.New("registration has already been reviewed")
	ErrNothingUpdated       = errors.New("registration changed concurrently, nothing updated")
	ErrFileTooLarge         = errors.New("file exceeds the maximum allowed size")
	ErrFileType             = errors.New("file type is not allowed")
	ErrFileMismatch         = errors.New("file does not belong to this upload session")
	ErrFileNotFound         = errors.New("file not found")
)

// ValidationError carries the per-field failures collected while
// checking submitted form data against the event schema.
type ValidationError struct {
	Fields []forms.FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("form validation failed on %d field(s)", len(e.Fields))
}
