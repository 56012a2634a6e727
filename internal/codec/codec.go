// Package codec detects a resource's compression from its filename and
// wraps raw byte streams in streaming decompressors or compressors. The
// set of codecs is closed; dispatch is by explicit switch so unsupported
// combinations fail up front instead of degrading to passthrough.
package codec

import (
	"io"
	"strings"

	"github.com/NamanBalaji/anyio/internal/errors"
)

// Kind identifies the compression applied to a resource's bytes.
type Kind string

const (
	None  Kind = "none"
	Gzip  Kind = "gzip"
	Bzip2 Kind = "bzip2"
	Lz4   Kind = "lz4"
	Xz    Kind = "xz"
	Zstd  Kind = "zstd"
)

// Mode selects between the blocking pipeline and the context-aware
// cooperative pipeline. Codec availability differs between the two.
type Mode int

const (
	Blocking Mode = iota
	Cooperative
)

// Detect maps the final extension of the locator's last path segment to a
// compression kind. Unrecognized or absent extensions mean no compression;
// detection never fails.
func Detect(locator string) Kind {
	base := locator
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}

	i := strings.LastIndexByte(base, '.')
	if i < 0 {
		return None
	}

	switch base[i+1:] {
	case "gz", "gzip":
		return Gzip
	case "bz", "bz2":
		return Bzip2
	case "lz4", "lz":
		return Lz4
	case "xz", "xz2":
		return Xz
	case "zst", "zstd":
		return Zstd
	default:
		return None
	}
}

// cooperativeKinds are the codecs available under the cooperative pipeline.
// Lz4 and Xz are blocking-mode only.
var cooperativeKinds = map[Kind]bool{
	None:  true,
	Gzip:  true,
	Bzip2: true,
	Zstd:  true,
}

// writerKinds are the codecs with a compressing writer. Lz4 and Xz are
// read-only.
var writerKinds = map[Kind]bool{
	None:  true,
	Gzip:  true,
	Bzip2: true,
	Zstd:  true,
}

// SupportsReader reports whether a decompressing reader exists for the
// kind under the given mode.
func SupportsReader(kind Kind, mode Mode) bool {
	if mode == Cooperative {
		return cooperativeKinds[kind]
	}
	return true
}

// SupportsWriter reports whether a compressing writer exists for the kind
// under the given mode.
func SupportsWriter(kind Kind, mode Mode) bool {
	if mode == Cooperative && !cooperativeKinds[kind] {
		return false
	}
	return writerKinds[kind]
}

// NewReader wraps raw in a decompressing reader for the given kind.
// Closing the returned reader closes raw as well. None is a zero-cost
// passthrough.
func NewReader(kind Kind, raw io.ReadCloser, mode Mode) (io.ReadCloser, error) {
	if !SupportsReader(kind, mode) {
		return nil, errors.NewNotSupported("", string(kind)+" decompression is not available in cooperative mode")
	}

	switch kind {
	case None:
		return raw, nil
	case Gzip:
		return newGzipReader(raw)
	case Bzip2:
		return newBzip2Reader(raw)
	case Lz4:
		return newLz4Reader(raw)
	case Xz:
		return newXzReader(raw)
	case Zstd:
		return newZstdReader(raw)
	default:
		return nil, errors.NewNotSupported("", "unknown compression kind "+string(kind))
	}
}

// NewWriter wraps raw in a compressing writer for the given kind. Closing
// the returned writer flushes the codec before closing raw; skipping the
// close loses buffered compressed data.
func NewWriter(kind Kind, raw io.WriteCloser, mode Mode) (io.WriteCloser, error) {
	if !SupportsWriter(kind, mode) {
		detail := string(kind) + " writer is not supported"
		if mode == Cooperative {
			detail = string(kind) + " compression is not available in cooperative mode"
		}
		return nil, errors.NewNotSupported("", detail)
	}

	switch kind {
	case None:
		return raw, nil
	case Gzip:
		return newGzipWriter(raw), nil
	case Bzip2:
		return newBzip2Writer(raw)
	case Zstd:
		return newZstdWriter(raw)
	default:
		return nil, errors.NewNotSupported("", string(kind)+" writer is not supported")
	}
}

// readCloser couples a decompressing reader with the raw stream beneath it
// so closing the outer handle releases every layer.
type readCloser struct {
	io.Reader
	closeFn func() error
}

func (rc *readCloser) Close() error {
	return rc.closeFn()
}

// writeCloser flushes the codec, then closes the raw stream, in that order.
type writeCloser struct {
	io.Writer
	closeFn func() error
}

func (wc *writeCloser) Close() error {
	return wc.closeFn()
}

// closeBoth closes the codec layer first so its trailer reaches the raw
// stream before the raw stream is released.
func closeBoth(codec io.Closer, raw io.Closer) error {
	codecErr := codec.Close()
	rawErr := raw.Close()

	if codecErr != nil {
		return codecErr
	}

	return rawErr
}
