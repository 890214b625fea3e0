package webtab

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	ECONFIG   = "config"
	ECONFLICT = "conflict"
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("webtab error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors return the error text.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// FetchError reports that a page could not be retrieved or rendered.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// CompletionError reports a transport or model failure from a Completer.
type CompletionError struct {
	Err error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion: %v", e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }

// ExtractionError reports that the model call for one chunk failed. The
// whole request is abandoned; no partial table is produced.
type ExtractionError struct {
	ChunkIndex int
	Err        error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("chunk %d: %v", e.ChunkIndex+1, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
