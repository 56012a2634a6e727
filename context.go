package anyio

import (
	"context"
	"io"
	"sync"

	"github.com/NamanBalaji/anyio/internal/codec"
	"github.com/NamanBalaji/anyio/internal/errors"
)

// OpenContext is the cooperative-mode counterpart of Open: the returned
// reader observes ctx, and cancellation closes every layer down to the
// transport connection, discarding any half-written cache file. Codec
// availability is narrower in this mode: lz4 and xz report NotSupported.
func OpenContext(ctx context.Context, locator string, opts ...Option) (io.ReadCloser, error) {
	rc, err := open(ctx, locator, codec.Cooperative, newOptions(opts))
	if err != nil {
		return nil, err
	}

	return newCtxReader(ctx, rc, locator), nil
}

// OpenWriterContext is the cooperative-mode counterpart of OpenWriter,
// with the same narrowed codec availability as OpenContext.
func OpenWriterContext(ctx context.Context, locator string, opts ...Option) (io.WriteCloser, error) {
	return openWriter(ctx, locator, codec.Cooperative, newOptions(opts))
}

// ReadStringContext reads the locator's full decompressed content under
// ctx.
func ReadStringContext(ctx context.Context, locator string, opts ...Option) (string, error) {
	r, err := OpenContext(ctx, locator, opts...)
	if err != nil {
		return "", err
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// DownloadContext downloads the remote resource's raw bytes under ctx.
func DownloadContext(ctx context.Context, remote, local string, opts ...Option) error {
	return download(ctx, remote, local, newOptions(opts))
}

// ctxReader ties a stream's lifetime to a context. Cancellation closes
// the inner chain from a watcher, which unblocks an in-flight transport
// read and releases the connection.
type ctxReader struct {
	inner   io.ReadCloser
	ctx     context.Context
	locator string
	stop    func() bool

	closeOnce sync.Once
	closeErr  error
}

func newCtxReader(ctx context.Context, inner io.ReadCloser, locator string) *ctxReader {
	r := &ctxReader{
		inner:   inner,
		ctx:     ctx,
		locator: locator,
	}
	r.stop = context.AfterFunc(ctx, func() { r.closeInner() })

	return r
}

func (r *ctxReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, errors.NewNetwork(err, r.locator, false)
	}

	n, err := r.inner.Read(p)
	if err != nil && err != io.EOF && r.ctx.Err() != nil {
		// The failure came from cancellation closing the chain under us.
		return n, errors.NewNetwork(r.ctx.Err(), r.locator, false)
	}

	return n, err
}

func (r *ctxReader) closeInner() error {
	r.closeOnce.Do(func() { r.closeErr = r.inner.Close() })
	return r.closeErr
}

func (r *ctxReader) Close() error {
	r.stop()
	return r.closeInner()
}
