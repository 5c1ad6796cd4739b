package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedLog matches any *MalformedLogError via errors.Is
	ErrMalformedLog = errors.New("malformed log")

	// ErrFieldExtraction matches any *FieldExtractionError via errors.Is
	ErrFieldExtraction = errors.New("field extraction failed")
)

// MalformedLogError reports a data line whose event tag is not recognized
type MalformedLogError struct {
	Index int    // 0-based index in the supplied sequence
	Line  string // offending line
	Tag   string // tag found at field 2
}

func (e *MalformedLogError) Error() string {
	return fmt.Sprintf("line %d: unrecognized event tag %q: %s", e.Index, e.Tag, e.Line)
}

// Is allows errors.Is(err, ErrMalformedLog)
func (e *MalformedLogError) Is(target error) bool {
	return target == ErrMalformedLog
}

// FieldExtractionError reports a positional field that is missing or not
// convertible to its expected type.
type FieldExtractionError struct {
	Index int
	Line  string
	Field int       // positional field index
	Kind  EventKind // EventUnknown when the failure precedes dispatch
	Err   error
}

func (e *FieldExtractionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("line %d: field %d missing (%s): %s", e.Index, e.Field, e.Kind, e.Line)
	}
	return fmt.Sprintf("line %d: field %d (%s): %v: %s", e.Index, e.Field, e.Kind, e.Err, e.Line)
}

// Unwrap returns the conversion error, if any
func (e *FieldExtractionError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is(err, ErrFieldExtraction)
func (e *FieldExtractionError) Is(target error) bool {
	return target == ErrFieldExtraction
}
