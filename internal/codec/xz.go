package codec

import (
	"io"

	"github.com/ulikunitz/xz"

	"github.com/NamanBalaji/anyio/internal/errors"
)

// xz is decompression-only, same as lz4.
func newXzReader(raw io.ReadCloser) (io.ReadCloser, error) {
	x, err := xz.NewReader(raw)
	if err != nil {
		return nil, errors.NewIO(err, "")
	}

	return &readCloser{
		Reader:  x,
		closeFn: raw.Close,
	}, nil
}
