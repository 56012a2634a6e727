package codec

import (
	"io"

	"github.com/pierrec/lz4/v4"
)

// lz4 is decompression-only; NewWriter rejects the kind before dispatch
// ever reaches this file.
func newLz4Reader(raw io.ReadCloser) (io.ReadCloser, error) {
	lz := lz4.NewReader(raw)

	return &readCloser{
		Reader:  lz,
		closeFn: raw.Close,
	}, nil
}
