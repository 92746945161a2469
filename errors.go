package eventfmt

import (
	"errors"
	"fmt"

	"github.com/mrjoshuak/eventfmt/internal/lazy"
	"github.com/mrjoshuak/eventfmt/internal/profiles"
)

// ErrorType is the category of an error returned by a Formatter.
type ErrorType string

const (
	ProfileError    ErrorType = "profile"
	ProcessingError ErrorType = "processing"
	ResizeError     ErrorType = "resize"
)

var (
	// ErrClosed is returned by operations started after Close.
	ErrClosed = errors.New("eventfmt: formatter closed")

	ErrUnknownContext = profiles.ErrUnknownContext
	ErrInvalidProfile = profiles.ErrInvalidProfile
	ErrProducerPanic  = lazy.ErrProducerPanic
)

// Error carries the category and the operation of a failure.
type Error struct {
	Type ErrorType
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s:%s] %v", e.Type, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WrapError wraps err with its category and operation. A nil err stays nil.
func WrapError(err error, errorType ErrorType, op string) error {
	if err == nil {
		return nil
	}
	return &Error{Type: errorType, Op: op, Err: err}
}

// IsErrorType reports whether err, or an error it wraps, has the given type.
func IsErrorType(err error, errorType ErrorType) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == errorType
}

// IsProfileError reports whether err came from profile lookup or loading.
func IsProfileError(err error) bool {
	return IsErrorType(err, ProfileError)
}

// IsProcessingError reports whether err came from lazy processing.
func IsProcessingError(err error) bool {
	return IsErrorType(err, ProcessingError)
}
