package fetch

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/inspectdoc/pkg/record"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	img := pngBytes(t)
	var flaky atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/ok.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(img)
	})
	mux.HandleFunc("/untyped", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(img)
	})
	mux.HandleFunc("/text", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("hello"))
	})
	mux.HandleFunc("/flaky", func(w http.ResponseWriter, r *http.Request) {
		if flaky.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(img)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testFetcher() *Fetcher {
	return New(Config{Timeout: 5 * time.Second, Retries: 2, RetryWait: time.Millisecond})
}

func TestDataURI(t *testing.T) {
	srv := testServer(t)
	f := testFetcher()
	ctx := context.Background()

	uri, err := f.DataURI(ctx, srv.URL+"/ok.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	uri, err = f.DataURI(ctx, srv.URL+"/untyped")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	uri, err = f.DataURI(ctx, srv.URL+"/flaky")
	require.NoError(t, err, "a transient 503 is retried")
	assert.NotEmpty(t, uri)

	_, err = f.DataURI(ctx, srv.URL+"/text")
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = f.DataURI(ctx, srv.URL+"/missing")
	assert.ErrorContains(t, err, "404")

	inline := "data:image/jpeg;base64,AAAA"
	uri, err = f.DataURI(ctx, inline)
	require.NoError(t, err)
	assert.Equal(t, inline, uri)
}

func TestFetchSizeLimit(t *testing.T) {
	srv := testServer(t)
	f := New(Config{MaxBytes: 10, RetryWait: time.Millisecond})

	_, _, err := f.Fetch(context.Background(), srv.URL+"/ok.png")
	assert.ErrorIs(t, err, ErrTooLarge)

	path := filepath.Join(t.TempDir(), "big.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t), 0o644))
	_, _, err = f.Fetch(context.Background(), path)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestFetchLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t), 0o644))
	f := testFetcher()

	for _, ref := range []string{path, "file://" + path} {
		data, ctype, err := f.Fetch(context.Background(), ref)
		require.NoError(t, err, ref)
		assert.Equal(t, "image/png", ctype)
		assert.NotEmpty(t, data)
	}

	_, _, err := f.Fetch(context.Background(), filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}

func TestResolveInspection(t *testing.T) {
	srv := testServer(t)
	local := filepath.Join(t.TempDir(), "local.png")
	require.NoError(t, os.WriteFile(local, pngBytes(t), 0o644))

	inline := "data:image/png;base64,AAAA"
	rec := &record.Inspection{Areas: []record.Area{{Items: []record.Item{
		{Photos: []record.Photo{{Base64: inline}, {Base64: srv.URL + "/ok.png"}}},
		{Photos: []record.Photo{{Base64: srv.URL + "/missing"}, {Base64: local}, {Base64: ""}}},
	}}}}
	before := rec.Clone()

	out, res, err := testFetcher().ResolveInspection(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, Result{Resolved: 2, Failed: 1}, res)
	assert.Equal(t, before, rec)

	items := out.Areas[0].Items
	assert.Equal(t, inline, items[0].Photos[0].Base64)
	assert.True(t, IsDataURI(items[0].Photos[1].Base64))
	assert.Equal(t, srv.URL+"/missing", items[1].Photos[0].Base64)
	assert.True(t, IsDataURI(items[1].Photos[1].Base64))
	assert.Empty(t, items[1].Photos[2].Base64)
}

func TestResolveInspectionCancelled(t *testing.T) {
	srv := testServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &record.Inspection{Areas: []record.Area{{Items: []record.Item{
		{Photos: []record.Photo{{Base64: srv.URL + "/ok.png"}}},
	}}}}
	_, _, err := testFetcher().ResolveInspection(ctx, rec)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://example.com/a.png"))
	assert.True(t, IsRemote(" HTTP://example.com/a.png"))
	assert.False(t, IsRemote("/tmp/a.png"))
	assert.False(t, IsRemote("data:image/png;base64,AAAA"))
}
