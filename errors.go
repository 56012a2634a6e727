package anyio

import "github.com/NamanBalaji/anyio/internal/errors"

// Sentinel errors surfaced by the package. Match them with errors.Is.
var (
	ErrNotFound     = errors.ErrNotFound
	ErrNotSupported = errors.ErrNotSupported
)

// IsIOError reports whether err is a local filesystem or stream failure.
func IsIOError(err error) bool { return errors.IsIO(err) }

// IsNetworkError reports whether err came from a remote transport.
func IsNetworkError(err error) bool { return errors.IsNetwork(err) }

// IsNotSupportedError reports whether err marks an operation outside the
// protocol or codec capability tables.
func IsNotSupportedError(err error) bool { return errors.IsNotSupported(err) }

// IsNotFound reports whether err means the resource does not exist,
// regardless of transport.
func IsNotFound(err error) bool { return errors.IsNotFound(err) }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	code, _ := errors.StatusCode(err)
	return code
}
