package errors

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	Is     = errors.Is
	As     = errors.As
	New    = errors.New
	Unwrap = errors.Unwrap
)

// Kind partitions every failure the pipeline can produce.
type Kind string

const (
	KindIO           Kind = "IO"            // Local filesystem and cache failures
	KindNetwork      Kind = "NETWORK"       // HTTP/FTP/S3 transport failures
	KindNotSupported Kind = "NOT_SUPPORTED" // Codec/direction/mode combination not implemented
)

// Error carries a failure kind alongside the underlying cause and the
// locator that was being resolved when it occurred.
type Error struct {
	Err        error
	Kind       Kind
	Resource   string
	Retryable  bool
	StatusCode int // HTTP status code when applicable, 0 otherwise
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("[%s] %s (status: %d): %v", e.Kind, e.Resource, e.StatusCode, e.Err)
	}
	if e.Resource == "" {
		return fmt.Sprintf("[%s] %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Resource, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Common sentinel errors
var (
	ErrNotFound      = New("resource not found")
	ErrNotSupported  = New("operation not supported")
	ErrEmptyLocator  = New("empty locator")
	ErrTimeout       = New("operation timed out")
	ErrAccessDenied  = New("access denied")
	ErrCorruptStream = New("corrupt compressed stream")
)

// NewIO creates a filesystem-related error. I/O errors are never retried.
func NewIO(err error, resource string) *Error {
	return &Error{
		Err:      err,
		Kind:     KindIO,
		Resource: resource,
	}
}

// WrapIO classifies err as an I/O failure unless it already carries a
// kind, in which case the original classification is preserved.
func WrapIO(err error, resource string) error {
	var e *Error
	if As(err, &e) {
		return err
	}

	return NewIO(err, resource)
}

// NewNetwork creates a transport-related error.
func NewNetwork(err error, resource string, retryable bool) *Error {
	return &Error{
		Err:       err,
		Kind:      KindNetwork,
		Resource:  resource,
		Retryable: retryable,
	}
}

// NewHTTP creates a network error from an HTTP response status.
// Server-side failures and throttling are retryable; client errors are not.
func NewHTTP(err error, resource string, statusCode int) *Error {
	retryable := false

	switch {
	case statusCode >= 500 && statusCode != 501:
		retryable = true
	case statusCode == 429:
		retryable = true
	}

	return &Error{
		Err:        err,
		Kind:       KindNetwork,
		Resource:   resource,
		Retryable:  retryable,
		StatusCode: statusCode,
	}
}

// NewNotSupported reports a codec/direction/execution-mode combination that
// is not implemented.
func NewNotSupported(resource, detail string) *Error {
	return &Error{
		Err:      fmt.Errorf("%w: %s", ErrNotSupported, detail),
		Kind:     KindNotSupported,
		Resource: resource,
	}
}

// IsRetryable reports whether retrying the operation is recommended.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var e *Error
	if As(err, &e) {
		return e.Retryable
	}

	return false
}

// IsIO reports whether the error is a local filesystem or cache failure.
func IsIO(err error) bool {
	var e *Error
	return As(err, &e) && e.Kind == KindIO
}

// IsNetwork reports whether the error is a transport failure.
func IsNetwork(err error) bool {
	var e *Error
	return As(err, &e) && e.Kind == KindNetwork
}

// IsNotSupported reports whether the requested combination is unimplemented.
func IsNotSupported(err error) bool {
	if Is(err, ErrNotSupported) {
		return true
	}

	var e *Error
	return As(err, &e) && e.Kind == KindNotSupported
}

// IsNotFound reports whether the resource does not exist, locally or remotely.
func IsNotFound(err error) bool {
	return Is(err, ErrNotFound) || Is(err, fs.ErrNotExist)
}

// StatusCode extracts the HTTP status code from an error if one was recorded.
func StatusCode(err error) (int, bool) {
	var e *Error
	if As(err, &e) && e.StatusCode != 0 {
		return e.StatusCode, true
	}
	return 0, false
}
