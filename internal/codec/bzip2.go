package codec

import (
	"io"

	"github.com/dsnet/compress/bzip2"

	"github.com/NamanBalaji/anyio/internal/errors"
)

func newBzip2Reader(raw io.ReadCloser) (io.ReadCloser, error) {
	bz, err := bzip2.NewReader(raw, nil)
	if err != nil {
		return nil, errors.NewIO(err, "")
	}

	return &readCloser{
		Reader:  bz,
		closeFn: func() error { return closeBoth(bz, raw) },
	}, nil
}

func newBzip2Writer(raw io.WriteCloser) (io.WriteCloser, error) {
	bz, err := bzip2.NewWriter(raw, &bzip2.WriterConfig{Level: bzip2.BestCompression})
	if err != nil {
		return nil, errors.NewIO(err, "")
	}

	return &writeCloser{
		Writer:  bz,
		closeFn: func() error { return closeBoth(bz, raw) },
	}, nil
}
