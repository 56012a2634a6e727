package cache_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NamanBalaji/anyio/internal/cache"
)

func remoteOpener(t *testing.T, content string, calls *int) cache.OpenFunc {
	t.Helper()

	return func() (io.ReadCloser, int64, error) {
		*calls++
		return io.NopCloser(strings.NewReader(content)), int64(len(content)), nil
	}
}

func TestFilePath(t *testing.T) {
	opts := cache.Options{Dir: "/tmp/cache"}
	assert.Equal(t, "/tmp/cache/data.txt.gz", cache.FilePath(opts, "https://host/path/data.txt.gz"))

	opts.FileName = "override.gz"
	assert.Equal(t, "/tmp/cache/override.gz", cache.FilePath(opts, "https://host/path/data.txt.gz"))
}

func TestMissPopulatesThenHits(t *testing.T) {
	dir := t.TempDir()
	opts := cache.Options{Dir: dir}
	locator := "https://host/data.txt"

	calls := 0

	rc, size, hit, err := cache.Open(locator, opts, remoteOpener(t, "remote payload", &calls))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, int64(len("remote payload")), size)

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "remote payload", string(body))

	cached, err := os.ReadFile(filepath.Join(dir, "data.txt"))
	require.NoError(t, err)
	assert.Equal(t, "remote payload", string(cached), "cache holds the exact raw bytes")

	// Second open must not touch the remote at all.
	rc, size, hit, err = cache.Open(locator, opts, func() (io.ReadCloser, int64, error) {
		t.Fatal("transport must not be called on a cache hit")
		return nil, 0, nil
	})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, int64(len("remote payload")), size, "hit size comes from the cache file")

	body, err = io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "remote payload", string(body))
	assert.Equal(t, 1, calls)
}

func TestForceRefetches(t *testing.T) {
	dir := t.TempDir()
	locator := "https://host/data.txt"

	calls := 0

	rc, _, _, err := cache.Open(locator, cache.Options{Dir: dir}, remoteOpener(t, "first", &calls))
	require.NoError(t, err)
	_, err = io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	rc, _, hit, err := cache.Open(locator, cache.Options{Dir: dir, Force: true}, remoteOpener(t, "second", &calls))
	require.NoError(t, err)
	assert.False(t, hit, "force must bypass the existing file")

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "second", string(body))
	assert.Equal(t, 2, calls)

	cached, err := os.ReadFile(filepath.Join(dir, "data.txt"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(cached))
}

func TestAbandonedReadLeavesNoEntry(t *testing.T) {
	dir := t.TempDir()
	locator := "https://host/data.txt"

	calls := 0

	rc, _, _, err := cache.Open(locator, cache.Options{Dir: dir}, remoteOpener(t, "partial content", &calls))
	require.NoError(t, err)

	buf := make([]byte, 4)
	_, err = rc.Read(buf)
	require.NoError(t, err)
	require.NoError(t, rc.Close(), "close before EOF abandons population")

	_, err = os.Stat(filepath.Join(dir, "data.txt"))
	assert.True(t, os.IsNotExist(err), "partial cache file must never be promoted")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp file must be cleaned up")

	// The next open is a miss and fetches again.
	rc, _, hit, err := cache.Open(locator, cache.Options{Dir: dir}, remoteOpener(t, "partial content", &calls))
	require.NoError(t, err)
	assert.False(t, hit)
	rc.Close()
	assert.Equal(t, 2, calls)
}

func TestExplicitFileName(t *testing.T) {
	dir := t.TempDir()
	opts := cache.Options{Dir: dir, FileName: "named.bin"}

	calls := 0

	rc, _, _, err := cache.Open("https://host/whatever.txt", opts, remoteOpener(t, "xyz", &calls))
	require.NoError(t, err)
	_, err = io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	_, err = os.Stat(filepath.Join(dir, "named.bin"))
	assert.NoError(t, err)
}

func TestOpenCreatesCacheDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "not", "yet", "there")

	calls := 0

	rc, _, _, err := cache.Open("https://host/x.txt", cache.Options{Dir: dir}, remoteOpener(t, "data", &calls))
	require.NoError(t, err)
	_, err = io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	cached, err := os.ReadFile(filepath.Join(dir, "x.txt"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(cached))
}
