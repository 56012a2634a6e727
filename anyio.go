// Package anyio opens a uniform byte stream for "a piece of data" no
// matter where it lives. A single locator string selects the transport
// (local filesystem, HTTP(S), FTP, or S3-compatible object storage) by
// its scheme and the compression codec (gzip, bzip2, lz4, xz, zstd) by
// its file extension; the returned stream reads or writes plain bytes
// regardless of how many layers sit beneath it.
//
//	r, err := anyio.Open("https://example.com/data.txt.gz")
//	if err != nil {
//		return err
//	}
//	defer r.Close()
//	// r yields the decompressed bytes
//
// Closing the outermost handle releases every layer beneath it; for
// writers this flushes the codec before the destination is closed.
package anyio

import (
	"context"
	"io"

	"github.com/NamanBalaji/anyio/internal/cache"
	"github.com/NamanBalaji/anyio/internal/codec"
	"github.com/NamanBalaji/anyio/internal/errors"
	"github.com/NamanBalaji/anyio/internal/progress"
	"github.com/NamanBalaji/anyio/internal/scheme"
	"github.com/NamanBalaji/anyio/internal/transport"
)

// Open resolves the locator and returns a reader for its decompressed
// content. The first failing layer aborts the whole resolution; no
// partial handle is ever returned.
func Open(locator string, opts ...Option) (io.ReadCloser, error) {
	return open(context.Background(), locator, codec.Blocking, newOptions(opts))
}

// OpenWriter resolves the locator and returns a writer that compresses
// according to the locator's extension. Only local paths and S3 objects
// are writable. The writer must be closed: the codec trailer is only
// flushed on Close, and for S3 the upload completes there.
func OpenWriter(locator string, opts ...Option) (io.WriteCloser, error) {
	return openWriter(context.Background(), locator, codec.Blocking, newOptions(opts))
}

func open(ctx context.Context, locator string, mode codec.Mode, o options) (io.ReadCloser, error) {
	kind, err := scheme.Classify(locator)
	if err != nil {
		return nil, err
	}
	if kind == scheme.Unknown {
		return nil, errors.NewNotSupported(locator, "unrecognized protocol scheme")
	}

	useCache := o.cacheDir != "" && scheme.IsRemote(kind)

	// With a cache in play the compression kind follows the cache file
	// name, so hits and misses decode identically.
	compressed := locator
	var cacheOpts cache.Options
	if useCache {
		cacheOpts = cache.Options{Dir: o.cacheDir, FileName: o.cacheFile, Force: o.forceCache}
		compressed = cache.FilePath(cacheOpts, locator)
	}

	comp := codec.Detect(compressed)
	if !codec.SupportsReader(comp, mode) {
		return nil, errors.NewNotSupported(locator, string(comp)+" decompression is not available in cooperative mode")
	}

	var (
		raw  io.ReadCloser
		size int64
	)

	if useCache {
		raw, size, _, err = cache.Open(locator, cacheOpts, func() (io.ReadCloser, int64, error) {
			return transport.OpenReader(ctx, kind, locator, o.transportConfig())
		})
	} else {
		raw, size, err = transport.OpenReader(ctx, kind, locator, o.transportConfig())
	}
	if err != nil {
		return nil, err
	}

	if o.progress != nil {
		raw = &progressReadCloser{
			Reader: progress.NewReader(raw, size, o.progress),
			inner:  raw,
		}
	}

	rc, err := codec.NewReader(comp, raw, mode)
	if err != nil {
		raw.Close()
		return nil, err
	}

	return rc, nil
}

func openWriter(ctx context.Context, locator string, mode codec.Mode, o options) (io.WriteCloser, error) {
	kind, err := scheme.Classify(locator)
	if err != nil {
		return nil, err
	}
	if kind == scheme.Unknown {
		return nil, errors.NewNotSupported(locator, "unrecognized protocol scheme")
	}

	// Reject unsupported codec/direction/mode combinations before any
	// destination is created.
	comp := codec.Detect(locator)
	if !codec.SupportsWriter(comp, mode) {
		return nil, errors.NewNotSupported(locator, string(comp)+" writer is not supported")
	}

	raw, err := transport.OpenWriter(ctx, kind, locator)
	if err != nil {
		return nil, err
	}

	w, err := codec.NewWriter(comp, raw, mode)
	if err != nil {
		raw.Close()
		return nil, err
	}

	return w, nil
}

// progressReadCloser keeps the raw stream's Close reachable from behind
// the counting wrapper.
type progressReadCloser struct {
	io.Reader
	inner io.ReadCloser
}

func (p *progressReadCloser) Close() error {
	return p.inner.Close()
}
