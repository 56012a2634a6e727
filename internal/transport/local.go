package transport

import (
	"io"
	"os"
	"path/filepath"

	"github.com/NamanBalaji/anyio/internal/errors"
)

func openLocal(path string) (io.ReadCloser, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, SizeUnknown, errors.NewIO(err, path)
	}

	size := SizeUnknown
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	return f, size, nil
}

// createLocal creates the destination file, making parent directories as
// needed. Write destinations always get their parents created; reads
// never do.
func createLocal(path string) (io.WriteCloser, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.NewIO(err, path)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, errors.NewIO(err, path)
	}

	return f, nil
}

// LocalExists reports whether a local path exists.
func LocalExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.NewIO(err, path)
}
