package anyio

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/NamanBalaji/anyio/internal/errors"
	"github.com/NamanBalaji/anyio/internal/scheme"
	"github.com/NamanBalaji/anyio/internal/transport"
)

// Sha256 returns the hex SHA-256 digest of the locator's raw bytes, i.e.
// the bytes as stored or transported, before any decompression.
func Sha256(locator string, opts ...Option) (string, error) {
	kind, err := scheme.Classify(locator)
	if err != nil {
		return "", err
	}
	if kind == scheme.Unknown {
		return "", errors.NewNotSupported(locator, "unrecognized protocol scheme")
	}

	r, _, err := transport.OpenReader(context.Background(), kind, locator, newOptions(opts).transportConfig())
	if err != nil {
		return "", err
	}
	defer r.Close()

	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", errors.WrapIO(err, locator)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
