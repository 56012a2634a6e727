package anyio

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/NamanBalaji/anyio/internal/errors"
	"github.com/NamanBalaji/anyio/internal/logger"
	"github.com/NamanBalaji/anyio/internal/progress"
	"github.com/NamanBalaji/anyio/internal/scheme"
	"github.com/NamanBalaji/anyio/internal/transport"
)

// Download copies the remote resource's raw bytes to a local file with no
// codec involvement: a compressed remote file stays compressed on disk.
// A failed transfer removes the partial destination file.
func Download(remote, local string, opts ...Option) error {
	return download(context.Background(), remote, local, newOptions(opts))
}

// DownloadWithRetry re-runs the whole download on network failure, up to
// retries extra attempts. Unlike the per-open retry, this also covers
// failures in the middle of the transfer.
func DownloadWithRetry(remote, local string, retries int, opts ...Option) error {
	o := newOptions(opts)

	var lastErr error

	for attempt := 0; attempt <= retries; attempt++ {
		lastErr = download(context.Background(), remote, local, o)
		if lastErr == nil {
			return nil
		}

		if !errors.IsNetwork(lastErr) || attempt == retries {
			break
		}

		logger.Debugf("download of %s failed, retrying: %v", remote, lastErr)
		time.Sleep(o.retryDelay)
	}

	return lastErr
}

func download(ctx context.Context, remote, local string, o options) error {
	kind, err := scheme.Classify(remote)
	if err != nil {
		return err
	}
	if !scheme.IsRemote(kind) {
		return errors.NewNotSupported(remote, "download source must be a remote locator")
	}

	r, size, err := transport.OpenReader(ctx, kind, remote, o.transportConfig())
	if err != nil {
		return err
	}
	defer r.Close()

	var src io.Reader = r
	if o.progress != nil {
		src = progress.NewReader(r, size, o.progress)
	}

	w, err := transport.OpenWriter(ctx, scheme.Local, local)
	if err != nil {
		return err
	}

	if _, err := io.Copy(w, src); err != nil {
		w.Close()
		removePartial(local)
		// Read-side failures arrive already classified by the transport;
		// anything unclassified came from writing the destination.
		return errors.WrapIO(err, local)
	}

	if err := w.Close(); err != nil {
		removePartial(local)
		return errors.NewIO(err, local)
	}

	return nil
}

// removePartial discards an incomplete destination file. Special files
// such as device nodes are left alone.
func removePartial(path string) {
	info, err := os.Lstat(path)
	if err != nil || !info.Mode().IsRegular() {
		return
	}

	os.Remove(path)
}

// Exists checks whether the resource exists without transferring it.
// FTP locators report NotSupported.
func Exists(locator string, opts ...Option) (bool, error) {
	kind, err := scheme.Classify(locator)
	if err != nil {
		return false, err
	}

	return transport.Exists(context.Background(), kind, locator, newOptions(opts).transportConfig())
}
