// Package transport opens raw byte streams for every supported locator
// kind. Remote opens are wrapped in bounded retry with backoff; once a
// stream is open, mid-read failures propagate to the caller untouched.
package transport

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/NamanBalaji/anyio/internal/errors"
	"github.com/NamanBalaji/anyio/internal/scheme"
)

const (
	defaultConnectTimeout = 30 * time.Second
	defaultIdleTimeout    = 90 * time.Second
	defaultUserAgent      = "anyio/1.0"
)

// SizeUnknown is returned as the stream size when the transport cannot
// determine it before the transfer starts.
const SizeUnknown int64 = -1

// Config carries per-open transport settings. The zero value is usable;
// every field has a working default.
type Config struct {
	// Client overrides the default HTTP client, headers and TLS policy
	// included. When set, InsecureTLS and Timeout are ignored for HTTP.
	Client      *http.Client
	Headers     map[string]string
	UserAgent   string
	Timeout     time.Duration
	InsecureTLS bool
	Retries     int
	RetryDelay  time.Duration
}

func (c Config) userAgent() string {
	if c.UserAgent != "" {
		return c.UserAgent
	}
	return defaultUserAgent
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return defaultConnectTimeout
}

// OpenReader opens a raw byte stream for the locator. The returned size is
// the expected raw byte count, or SizeUnknown. Remote kinds retry the open
// according to the config; a stream that fails after opening is never
// silently restarted.
func OpenReader(ctx context.Context, kind scheme.Kind, locator string, cfg Config) (io.ReadCloser, int64, error) {
	switch kind {
	case scheme.Local:
		return openLocal(locator)
	case scheme.HTTP:
		return openWithRetry(ctx, locator, cfg, openHTTP)
	case scheme.FTP:
		return openWithRetry(ctx, locator, cfg, openFTP)
	case scheme.S3:
		return openWithRetry(ctx, locator, cfg, openS3)
	default:
		return nil, SizeUnknown, errors.NewNotSupported(locator, "unrecognized protocol scheme")
	}
}

// OpenWriter opens a raw byte sink for the locator. Only local paths and
// S3 objects are writable destinations.
func OpenWriter(ctx context.Context, kind scheme.Kind, locator string) (io.WriteCloser, error) {
	switch kind {
	case scheme.Local:
		return createLocal(locator)
	case scheme.S3:
		return createS3(ctx, locator)
	case scheme.HTTP, scheme.FTP:
		return nil, errors.NewNotSupported(locator, "writing to "+string(kind)+" destinations")
	default:
		return nil, errors.NewNotSupported(locator, "unrecognized protocol scheme")
	}
}

// Exists checks for the resource without transferring it: a stat for
// local paths, a short HEAD probe for HTTP, a HeadObject for S3. FTP has
// no cheap probe and reports NotSupported.
func Exists(ctx context.Context, kind scheme.Kind, locator string, cfg Config) (bool, error) {
	switch kind {
	case scheme.Local:
		return LocalExists(locator)
	case scheme.HTTP:
		return httpExists(ctx, locator, cfg)
	case scheme.S3:
		bucket, key, err := ParseS3Locator(locator)
		if err != nil {
			return false, err
		}
		return S3Exists(ctx, bucket, key)
	default:
		return false, errors.NewNotSupported(locator, "existence check for "+string(kind))
	}
}

type openFunc func(ctx context.Context, locator string, cfg Config) (io.ReadCloser, int64, error)

func openWithRetry(ctx context.Context, locator string, cfg Config, open openFunc) (io.ReadCloser, int64, error) {
	var (
		rc   io.ReadCloser
		size int64
	)

	err := retry(ctx, cfg.Retries, cfg.RetryDelay, func() error {
		var err error
		rc, size, err = open(ctx, locator, cfg)
		return err
	})
	if err != nil {
		return nil, SizeUnknown, err
	}

	return &remoteReader{ReadCloser: rc, locator: locator}, size, nil
}

// remoteReader classifies mid-stream failures as Network-kind. A stream
// that dies after opening (truncated body, dropped connection) is a
// transport failure, but it is never retried.
type remoteReader struct {
	io.ReadCloser
	locator string
}

func (r *remoteReader) Read(p []byte) (int, error) {
	n, err := r.ReadCloser.Read(p)
	if err != nil && err != io.EOF {
		var e *errors.Error
		if !errors.As(err, &e) {
			err = errors.NewNetwork(err, r.locator, false)
		}
	}

	return n, err
}
