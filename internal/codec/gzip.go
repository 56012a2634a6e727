package codec

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/NamanBalaji/anyio/internal/errors"
)

func newGzipReader(raw io.ReadCloser) (io.ReadCloser, error) {
	gz, err := gzip.NewReader(raw)
	if err != nil {
		if errors.Is(err, gzip.ErrHeader) || errors.Is(err, gzip.ErrChecksum) {
			return nil, errors.NewIO(fmt.Errorf("%w: %v", errors.ErrCorruptStream, err), "")
		}
		return nil, errors.NewIO(err, "")
	}

	return &readCloser{
		Reader:  gz,
		closeFn: func() error { return closeBoth(gz, raw) },
	}, nil
}

func newGzipWriter(raw io.WriteCloser) io.WriteCloser {
	gz := gzip.NewWriter(raw)

	return &writeCloser{
		Writer:  gz,
		closeFn: func() error { return closeBoth(gz, raw) },
	}
}
