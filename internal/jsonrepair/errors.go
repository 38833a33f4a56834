package jsonrepair

import (
	"errors"
	"fmt"
)

var (
	// ErrNoJSON is returned when the input contains no object delimited by
	// '{' and '}'.
	ErrNoJSON = errors.New("no JSON object found in response")

	// ErrEmptyCandidate is returned when the extracted object text is blank.
	ErrEmptyCandidate = errors.New("extracted JSON candidate is empty")
)

// windowRadius is half the width of the diagnostic window around a syntax error.
const windowRadius = 100

// DecodeError is the terminal error of the repair pipeline. It carries the last
// stage attempted and the text surrounding the reported failure offset.
type DecodeError struct {
	Stage  string
	Offset int64
	Window string
	Err    error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Window == "" {
		return fmt.Sprintf("json decode failed at %s stage: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("json decode failed at %s stage (offset %d): %v; near %q",
		e.Stage, e.Offset, e.Err, e.Window)
}

// Unwrap returns the underlying parse or extraction error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

func newDecodeError(stage, text string, err error) *DecodeError {
	de := &DecodeError{Stage: stage, Err: err}

	var syntaxErr *syntaxError
	if errors.As(err, &syntaxErr) {
		de.Offset = syntaxErr.Offset
	}
	de.Window = window(text, de.Offset)
	return de
}

// window returns up to windowRadius bytes on each side of offset.
func window(text string, offset int64) string {
	if text == "" {
		return ""
	}
	off := int(offset)
	if off < 0 {
		off = 0
	}
	if off > len(text) {
		off = len(text)
	}
	start := off - windowRadius
	if start < 0 {
		start = 0
	}
	end := off + windowRadius
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}
