package transform

import "errors"

// MajorDeleteError is the reason given when minification removed structure
// holding an expression. Callers may match on it.
const MajorDeleteError = "html minifier deleted something major, cannot proceed."

var (
	// ErrMajorDeletion identifies major-deletion failures with errors.Is
	ErrMajorDeletion = errors.New(MajorDeleteError)
	// ErrMinify wraps markup engine failures
	ErrMinify = errors.New("minification failed")
	// ErrCSS wraps stylesheet findings escalated by failOnError
	ErrCSS = errors.New("could not minify CSS")
)

// Error is a fatal failure for one file. It renders as
// "<absolute path>: <reason>", followed by detail lines when present.
type Error struct {
	File   string
	Reason string
	Detail string
	Err    error
}

// NewError creates a new file error
func NewError(file, reason, detail string, err error) *Error {
	return &Error{File: file, Reason: reason, Detail: detail, Err: err}
}

func (e *Error) Error() string {
	msg := e.File + ": " + e.Reason
	if e.Detail != "" {
		msg += "\n" + e.Detail
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}
