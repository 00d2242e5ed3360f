package skills

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

var (
	// ErrNotFound indicates that a skill or one of its supporting files
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a skill directory already carries a
	// document. Only returned when creation is asked to guard against
	// overwrites.
	ErrAlreadyExists = errors.New("skill already exists")
)

// ValidationError aggregates the field-level problems of a malformed
// mutating request.
type ValidationError struct {
	err *multierror.Error
}

func (e *ValidationError) Error() string {
	return e.err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.err
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// newValidationError returns nil when no field errors were collected.
func newValidationError(errs *multierror.Error) error {
	if errs.ErrorOrNil() == nil {
		return nil
	}
	return &ValidationError{err: errs}
}
