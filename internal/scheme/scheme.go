// Package scheme classifies a locator string into the transport that
// services it. Classification is purely syntactic: no network or
// filesystem access happens here.
package scheme

import (
	"strings"

	"github.com/NamanBalaji/anyio/internal/errors"
)

// Kind identifies the transport mechanism behind a locator.
type Kind string

const (
	Local   Kind = "local"
	HTTP    Kind = "http"
	FTP     Kind = "ftp"
	S3      Kind = "s3"
	Unknown Kind = "unknown"
)

// Classify derives the transport kind from the locator's scheme prefix.
// Anything without a recognized scheme is a local filesystem path,
// including relative paths and paths containing dots. A scheme-looking
// prefix that is not recognized classifies as Unknown.
func Classify(locator string) (Kind, error) {
	if locator == "" {
		return Unknown, errors.NewIO(errors.ErrEmptyLocator, locator)
	}

	switch {
	case strings.HasPrefix(locator, "http://"), strings.HasPrefix(locator, "https://"):
		return HTTP, nil
	case strings.HasPrefix(locator, "ftp://"):
		return FTP, nil
	case strings.HasPrefix(locator, "s3://"), strings.HasPrefix(locator, "r2://"):
		return S3, nil
	case strings.Contains(locator, "://"):
		return Unknown, nil
	default:
		return Local, nil
	}
}

// IsRemote reports whether the kind requires network transport.
func IsRemote(k Kind) bool {
	return k == HTTP || k == FTP || k == S3
}
