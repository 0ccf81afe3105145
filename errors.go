package fenestra

import "fmt"

// OsError reports a native runtime or display failure. It is fatal to event
// loop construction.
type OsError struct {
	Op  string
	Err error
}

func (e *OsError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OsError) Unwrap() error { return e.Err }

func osError(op string, err error) *OsError {
	return &OsError{Op: op, Err: err}
}

// NotSupportedError reports a well-defined feature that the active backend
// structurally cannot provide. It is always reported, never silently
// defaulted.
type NotSupportedError struct {
	Feature string
}

func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("%s is not supported", e.Feature)
}

func notSupported(feature string) *NotSupportedError {
	return &NotSupportedError{Feature: feature}
}

// RequestError wraps a failure to satisfy a window or cursor creation
// request.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ExitError is returned by RunApp when the loop exited with a non-zero
// code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("event loop exited with code %d", e.Code)
}
