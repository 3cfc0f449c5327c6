package render

import "fmt"

// ErrorKind classifies renderer failures.
type ErrorKind string

// IOFailure means the PDF backend could not produce output.
const IOFailure ErrorKind = "io_failure"

// RenderError is returned when a document cannot be produced. Normal text
// never yields a RenderError.
type RenderError struct {
	Kind ErrorKind
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Kind, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

func ioFailure(err error) error {
	return &RenderError{Kind: IOFailure, Err: err}
}
