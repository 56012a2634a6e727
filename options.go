package anyio

import (
	"net/http"
	"time"

	"github.com/NamanBalaji/anyio/internal/config"
	"github.com/NamanBalaji/anyio/internal/progress"
	"github.com/NamanBalaji/anyio/internal/transport"
)

// ProgressFunc receives the cumulative raw bytes transferred and the
// expected total, or UnknownSize when the total cannot be determined.
type ProgressFunc = progress.Func

// UnknownSize is reported as the total when the transport cannot
// determine the resource's size.
const UnknownSize = progress.UnknownTotal

// Option configures a single resolution.
type Option func(*options)

type options struct {
	client      *http.Client
	headers     map[string]string
	userAgent   string
	timeout     time.Duration
	insecureTLS bool
	retries     int
	retryDelay  time.Duration
	cacheDir    string
	cacheFile   string
	forceCache  bool
	progress    ProgressFunc
}

func newOptions(opts []Option) options {
	o := options{
		retries:     3,
		retryDelay:  2 * time.Second,
		insecureTLS: config.AcceptInvalidCertsFromEnv(),
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

func (o options) transportConfig() transport.Config {
	return transport.Config{
		Client:      o.client,
		Headers:     o.headers,
		UserAgent:   o.userAgent,
		Timeout:     o.timeout,
		InsecureTLS: o.insecureTLS,
		Retries:     o.retries,
		RetryDelay:  o.retryDelay,
	}
}

// WithClient supplies a custom HTTP client. The client's own TLS and
// timeout settings take precedence over WithInsecureTLS and WithTimeout.
func WithClient(client *http.Client) Option {
	return func(o *options) { o.client = client }
}

// WithHeaders sets request headers for HTTP transports.
func WithHeaders(headers map[string]string) Option {
	return func(o *options) { o.headers = headers }
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(agent string) Option {
	return func(o *options) { o.userAgent = agent }
}

// WithTimeout sets the transport connect timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithInsecureTLS accepts invalid TLS certificates. Prefer the
// ANYIO_ACCEPT_INVALID_CERTS environment variable for ad-hoc use; this
// option exists for callers that manage the toggle themselves.
func WithInsecureTLS(insecure bool) Option {
	return func(o *options) { o.insecureTLS = insecure }
}

// WithRetries bounds the attempts made when opening a remote stream.
func WithRetries(n int) Option {
	return func(o *options) { o.retries = n }
}

// WithRetryDelay sets the base backoff delay between open attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(o *options) { o.retryDelay = d }
}

// WithCacheDir routes remote reads through a local cache directory. The
// first read populates the cache; later reads of the same locator skip
// transport entirely.
func WithCacheDir(dir string) Option {
	return func(o *options) { o.cacheDir = dir }
}

// WithCacheFile overrides the derived cache file name.
func WithCacheFile(name string) Option {
	return func(o *options) { o.cacheFile = name }
}

// WithForceCache re-fetches the resource even when a cache file exists.
func WithForceCache(force bool) Option {
	return func(o *options) { o.forceCache = force }
}

// WithProgress reports cumulative raw (pre-decompression) bytes through
// fn as the stream is consumed.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) { o.progress = fn }
}
