package codec

import (
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/NamanBalaji/anyio/internal/errors"
)

func newZstdReader(raw io.ReadCloser) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(raw)
	if err != nil {
		return nil, errors.NewIO(err, "")
	}

	return &readCloser{
		Reader: dec,
		closeFn: func() error {
			dec.Close()
			return raw.Close()
		},
	}, nil
}

func newZstdWriter(raw io.WriteCloser) (io.WriteCloser, error) {
	enc, err := zstd.NewWriter(raw)
	if err != nil {
		return nil, errors.NewIO(err, "")
	}

	return &writeCloser{
		Writer:  enc,
		closeFn: func() error { return closeBoth(enc, raw) },
	}, nil
}
