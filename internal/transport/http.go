package transport

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/NamanBalaji/anyio/internal/errors"
	"github.com/NamanBalaji/anyio/internal/logger"
)

const existsProbeTimeout = 2 * time.Second

// NewHTTPClient builds the client used when the caller does not supply one.
// Accepting invalid certificates is a deliberate opt-in threaded through
// the config, never read ambiently here.
func NewHTTPClient(cfg Config) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.timeout(),
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       defaultIdleTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		DisableCompression:    true,
	}

	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &http.Client{Transport: transport}
}

func openHTTP(ctx context.Context, locator string, cfg Config) (io.ReadCloser, int64, error) {
	client := cfg.Client
	if client == nil {
		client = NewHTTPClient(cfg)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, http.NoBody)
	if err != nil {
		return nil, SizeUnknown, errors.NewNetwork(err, locator, false)
	}

	req.Header.Set("User-Agent", cfg.userAgent())
	for key, value := range cfg.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, SizeUnknown, classifyHTTPError(err, locator)
	}

	// Status is validated before any byte is handed upward, so a 4xx/5xx
	// can never surface as partial content.
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		logger.Debugf("GET %s failed with status %d", locator, resp.StatusCode)
		return nil, SizeUnknown, statusError(resp.StatusCode, locator)
	}

	// net/http pre-parses Content-Length; -1 means absent or unparseable,
	// which degrades to an unknown total, not an error.
	size := resp.ContentLength
	if size < 0 {
		size = SizeUnknown
	}

	return resp.Body, size, nil
}

// httpExists probes the resource with a short-timeout HEAD request.
func httpExists(ctx context.Context, locator string, cfg Config) (bool, error) {
	client := cfg.Client
	if client == nil {
		probe := cfg
		probe.Timeout = existsProbeTimeout
		client = NewHTTPClient(probe)
		client.Timeout = existsProbeTimeout
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, locator, http.NoBody)
	if err != nil {
		return false, errors.NewNetwork(err, locator, false)
	}
	req.Header.Set("User-Agent", cfg.userAgent())

	resp, err := client.Do(req)
	if err != nil {
		return false, classifyHTTPError(err, locator)
	}
	resp.Body.Close()

	// Only a definitive absence reads as "does not exist"; a failing or
	// refusing server is an error, not an answer.
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return false, nil
	default:
		return false, statusError(resp.StatusCode, locator)
	}
}

func statusError(statusCode int, locator string) error {
	var base error

	switch statusCode {
	case http.StatusNotFound, http.StatusGone:
		base = errors.ErrNotFound
	case http.StatusForbidden, http.StatusUnauthorized:
		base = errors.ErrAccessDenied
	default:
		base = errors.New(http.StatusText(statusCode))
	}

	return errors.NewHTTP(base, locator, statusCode)
}

// classifyHTTPError maps request failures into the pipeline's error kinds.
// Timeouts and transient network failures are retryable; context
// cancellation is not.
func classifyHTTPError(err error, locator string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return errors.NewNetwork(err, locator, false)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errors.NewNetwork(errors.ErrTimeout, locator, true)
	}

	return errors.NewNetwork(err, locator, true)
}
