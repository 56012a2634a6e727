// Package progress wraps a raw byte stream to report cumulative transfer
// counts. The wrapper sits below decompression, so reported bytes reflect
// transfer progress rather than decompressed output size.
package progress

import "io"

// UnknownTotal is reported when the transport cannot determine the
// resource's size up front.
const UnknownTotal int64 = -1

// Func receives the cumulative raw bytes read so far and the expected
// total, or UnknownTotal when the size is not known.
type Func func(read, total int64)

type reader struct {
	inner io.Reader
	total int64
	read  int64
	fn    Func
}

// NewReader wraps inner so every successful read reports progress through
// fn before the bytes continue up the stack. The bytes themselves pass
// through untouched, and EOF and errors are forwarded unchanged.
func NewReader(inner io.Reader, total int64, fn Func) io.Reader {
	if fn == nil {
		return inner
	}

	return &reader{
		inner: inner,
		total: total,
		fn:    fn,
	}
}

func (r *reader) Read(p []byte) (int, error) {
	n, err := r.inner.Read(p)
	if n > 0 {
		r.read += int64(n)
		r.fn(r.read, r.total)
	}

	return n, err
}
