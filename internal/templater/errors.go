package templater

import (
	"errors"
	"fmt"
)

// ErrorKind classifies templating failures.
type ErrorKind string

const (
	ConfigurationError      ErrorKind = "configuration"
	AmbiguousCanonicalError ErrorKind = "ambiguous_canonical"
	MissingContentError     ErrorKind = "missing_content"
	ParseError              ErrorKind = "parse"
)

// Sentinels for errors.Is.
var (
	ErrConfiguration      = &Error{Kind: ConfigurationError}
	ErrAmbiguousCanonical = &Error{Kind: AmbiguousCanonicalError}
	ErrMissingContent     = &Error{Kind: MissingContentError}
	ErrParse              = &Error{Kind: ParseError}
)

// Error is a templating failure tied to the file it concerns.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := string(e.Kind) + " error"
	if e.Path != "" {
		msg = fmt.Sprintf("%s in %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

// Fatal reports whether the kind aborts a run.
func (k ErrorKind) Fatal() bool {
	return k == ConfigurationError || k == ParseError
}

// IsFatal reports whether err aborts a templating run. Errors that are not
// *Error (I/O failures) are always fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind.Fatal()
	}
	return true
}

func newError(kind ErrorKind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}
