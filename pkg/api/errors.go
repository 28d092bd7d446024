package api

import (
	"errors"
	"fmt"
)

var (
	// ErrInputNotFound is returned when the report document does not exist
	// at the resolved location.
	ErrInputNotFound = errors.New("output.xml file not found in the report path")

	// ErrNoTestsFound is returned when the statistics block reports zero
	// passed and zero failed tests, leaving the pass percentage undefined.
	ErrNoTestsFound = errors.New("no passed or failed tests found in the report")

	// ErrParse matches every *ParseError with errors.Is.
	ErrParse = errors.New("unable to parse report")
)

// ParseError describes a document that does not match the expected report
// schema: a missing node, a missing attribute or a malformed value.
type ParseError struct {
	// Field is the node or attribute that failed, e.g. "status" or "stat@pass".
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse %s", e.Field)
	if e.Value != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Value)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

func newParseError(field, value string, err error) *ParseError {
	return &ParseError{Field: field, Value: value, Err: err}
}
