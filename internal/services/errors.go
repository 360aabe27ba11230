package services

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrExtraction means the upload could not be parsed as a PDF.
	ErrExtraction = errors.New("could not read PDF")
	// ErrEmptyResume means the PDF parsed but holds no extractable text,
	// e.g. a scanned document.
	ErrEmptyResume = errors.New("could not extract text from PDF")
	// ErrUnsupportedFile means the upload is not named like a PDF.
	ErrUnsupportedFile = errors.New("only PDF files are allowed")
	ErrMissingInput    = errors.New("missing required input")
	// ErrCacheUnavailable wraps every cache-store failure other than a miss.
	// The pipeline never returns it.
	ErrCacheUnavailable = errors.New("cache store unavailable")
)

type MissingInputError struct {
	Field string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func (e *MissingInputError) Is(target error) bool {
	return target == ErrMissingInput
}

// ModelOutputError covers both a failed model call and a response that does
// not match the result schema.
type ModelOutputError struct {
	Reason string
	Err    error
}

func (e *ModelOutputError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *ModelOutputError) Unwrap() error {
	return e.Err
}

// IsInputError reports whether err should be answered with a client error.
func IsInputError(err error) bool {
	return errors.Is(err, ErrExtraction) ||
		errors.Is(err, ErrEmptyResume) ||
		errors.Is(err, ErrUnsupportedFile) ||
		errors.Is(err, ErrMissingInput)
}
