package transport_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NamanBalaji/anyio/internal/errors"
	"github.com/NamanBalaji/anyio/internal/scheme"
	"github.com/NamanBalaji/anyio/internal/transport"
)

func setupTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return server
}

func TestOpenReaderHTTP(t *testing.T) {
	server := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Length", "5")
		w.Write([]byte("hello"))
	})

	rc, size, err := transport.OpenReader(context.Background(), scheme.HTTP, server.URL+"/file.txt", transport.Config{})
	require.NoError(t, err)
	defer rc.Close()

	assert.Equal(t, int64(5), size)

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
}

func TestOpenReaderHTTPUnknownSize(t *testing.T) {
	server := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.(http.Flusher).Flush() // force chunked transfer, no Content-Length
		w.Write([]byte("stream"))
	})

	rc, size, err := transport.OpenReader(context.Background(), scheme.HTTP, server.URL+"/file", transport.Config{})
	require.NoError(t, err)
	defer rc.Close()

	assert.Equal(t, transport.SizeUnknown, size)
}

func TestOpenReaderHTTPErrorStatus(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantErrIs  error
		wantStatus int
	}{
		{"not found", http.StatusNotFound, errors.ErrNotFound, 404},
		{"forbidden", http.StatusForbidden, errors.ErrAccessDenied, 403},
		{"server error", http.StatusInternalServerError, nil, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte("error body"))
			})

			rc, _, err := transport.OpenReader(context.Background(), scheme.HTTP, server.URL, transport.Config{})
			require.Error(t, err)
			assert.Nil(t, rc, "no partial handle on error status")
			assert.True(t, errors.IsNetwork(err))

			code, ok := errors.StatusCode(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantStatus, code)

			if tt.wantErrIs != nil {
				assert.True(t, errors.Is(err, tt.wantErrIs))
			}
		})
	}
}

func TestOpenReaderHTTPCustomHeaders(t *testing.T) {
	var gotAuth, gotAgent string

	server := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("X-Custom-Auth-Key")
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	})

	cfg := transport.Config{
		Headers: map[string]string{"X-Custom-Auth-Key": "TOKEN"},
	}

	rc, _, err := transport.OpenReader(context.Background(), scheme.HTTP, server.URL, cfg)
	require.NoError(t, err)
	rc.Close()

	assert.Equal(t, "TOKEN", gotAuth)
	assert.Equal(t, "anyio/1.0", gotAgent)
}

func TestOpenReaderRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32

	server := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("eventually"))
	})

	cfg := transport.Config{Retries: 3, RetryDelay: 1}

	rc, _, err := transport.OpenReader(context.Background(), scheme.HTTP, server.URL, cfg)
	require.NoError(t, err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "eventually", string(body))
	assert.Equal(t, int32(3), calls.Load())
}

func TestOpenReaderDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32

	server := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})

	cfg := transport.Config{Retries: 3, RetryDelay: 1}

	_, _, err := transport.OpenReader(context.Background(), scheme.HTTP, server.URL, cfg)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "4xx must not be retried")
}

func TestExistsHTTP(t *testing.T) {
	server := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/present" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	ok, err := transport.Exists(context.Background(), scheme.HTTP, server.URL+"/present", transport.Config{})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = transport.Exists(context.Background(), scheme.HTTP, server.URL+"/absent", transport.Config{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExistsHTTPServerError(t *testing.T) {
	server := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/denied":
			w.WriteHeader(http.StatusForbidden)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	// A failing server is an error, not "does not exist".
	ok, err := transport.Exists(context.Background(), scheme.HTTP, server.URL+"/broken", transport.Config{})
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, errors.IsNetwork(err))

	ok, err = transport.Exists(context.Background(), scheme.HTTP, server.URL+"/denied", transport.Config{})
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, errors.ErrAccessDenied))
}

func TestOpenReaderTruncatedBodyIsNetwork(t *testing.T) {
	server := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "100")
		w.Write([]byte("short"))
	})

	rc, size, err := transport.OpenReader(context.Background(), scheme.HTTP, server.URL+"/data.bin", transport.Config{})
	require.NoError(t, err)
	defer rc.Close()
	assert.EqualValues(t, 100, size)

	_, err = io.ReadAll(rc)
	require.Error(t, err)
	assert.True(t, errors.IsNetwork(err), "mid-stream failure must keep Network kind")
	assert.False(t, errors.IsRetryable(err), "mid-stream failure must not be retryable")
}

func TestExistsFTPNotSupported(t *testing.T) {
	_, err := transport.Exists(context.Background(), scheme.FTP, "ftp://host/file", transport.Config{})
	require.Error(t, err)
	assert.True(t, errors.IsNotSupported(err))
}

func TestOpenWriterUnsupportedKinds(t *testing.T) {
	for _, kind := range []scheme.Kind{scheme.HTTP, scheme.FTP, scheme.Unknown} {
		w, err := transport.OpenWriter(context.Background(), kind, "http://example.com/x")
		require.Error(t, err, kind)
		assert.Nil(t, w)
		assert.True(t, errors.IsNotSupported(err))
	}
}

func TestOpenReaderUnknownScheme(t *testing.T) {
	rc, _, err := transport.OpenReader(context.Background(), scheme.Unknown, "gopher://example.com/x", transport.Config{})
	require.Error(t, err)
	assert.Nil(t, rc)
	assert.True(t, errors.IsNotSupported(err))
}
