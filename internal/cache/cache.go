// Package cache interposes a content-addressable local copy between a
// remote transport stream and decompression. Raw (still-compressed) bytes
// are teed to disk as they stream past, so a later open of the same
// locator serves from disk with no network access and byte-identical
// results. Population writes to a temporary name and renames only on a
// complete read; a partial file never satisfies a later hit.
package cache

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/NamanBalaji/anyio/internal/errors"
	"github.com/NamanBalaji/anyio/internal/logger"
	"github.com/NamanBalaji/anyio/internal/transport"
)

// Options locate the cache entry for one resolution.
type Options struct {
	Dir      string
	FileName string // optional override; defaults to the locator's final segment
	Force    bool   // re-fetch even when a cache file exists
}

// FilePath computes the deterministic local path for a locator's cache
// entry.
func FilePath(opts Options, locator string) string {
	name := opts.FileName
	if name == "" {
		name = locator
		if i := strings.LastIndexByte(name, '/'); i >= 0 {
			name = name[i+1:]
		}
	}

	return filepath.Join(opts.Dir, name)
}

// OpenFunc opens the remote raw stream on a cache miss.
type OpenFunc func() (io.ReadCloser, int64, error)

// Open returns a raw reader for the locator, serving from cache when
// possible. The hit result reports whether transport was skipped. On a
// miss the returned reader populates the cache as it is consumed.
func Open(locator string, opts Options, openRemote OpenFunc) (rc io.ReadCloser, size int64, hit bool, err error) {
	path := FilePath(opts, locator)

	if !opts.Force {
		if _, statErr := os.Stat(path); statErr == nil {
			f, openErr := os.Open(path)
			if openErr != nil {
				return nil, 0, false, errors.NewIO(openErr, path)
			}

			size := transport.SizeUnknown
			if info, infoErr := f.Stat(); infoErr == nil {
				size = info.Size()
			}

			logger.Debugf("cache hit for %s at %s", locator, path)

			return f, size, true, nil
		}
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, 0, false, errors.NewIO(err, opts.Dir)
	}

	remote, size, err := openRemote()
	if err != nil {
		return nil, 0, false, err
	}

	tmp := path + "." + uuid.NewString() + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		remote.Close()
		return nil, 0, false, errors.NewIO(err, tmp)
	}

	return &populateReader{
		remote: remote,
		file:   f,
		tmp:    tmp,
		final:  path,
	}, size, false, nil
}

// populateReader tees remote bytes into the cache temp file while handing
// the same bytes onward. EOF promotes the temp file to the final name;
// closing early discards it.
type populateReader struct {
	remote io.ReadCloser
	file   *os.File
	tmp    string
	final  string
	done   bool
	failed bool
}

func (p *populateReader) Read(buf []byte) (int, error) {
	if p.failed {
		return 0, errors.NewIO(errors.New("cache population already failed"), p.final)
	}

	n, err := p.remote.Read(buf)
	if n > 0 {
		if _, werr := p.file.Write(buf[:n]); werr != nil {
			p.failed = true
			return n, errors.NewIO(werr, p.tmp)
		}
	}

	if err == io.EOF && !p.done {
		if ferr := p.finalize(); ferr != nil {
			p.failed = true
			return n, ferr
		}
	}

	return n, err
}

func (p *populateReader) finalize() error {
	if err := p.file.Close(); err != nil {
		return errors.NewIO(err, p.tmp)
	}

	if err := os.Rename(p.tmp, p.final); err != nil {
		return errors.NewIO(err, p.final)
	}

	p.done = true
	logger.Debugf("cache populated at %s", p.final)

	return nil
}

func (p *populateReader) Close() error {
	err := p.remote.Close()

	if !p.done {
		p.file.Close()
		if rmErr := os.Remove(p.tmp); rmErr != nil && !os.IsNotExist(rmErr) {
			logger.Warnf("failed to remove partial cache file %s: %v", p.tmp, rmErr)
		}
	}

	return err
}
