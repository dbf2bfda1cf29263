package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/a.png"))
	assert.True(t, IsURL("http://localhost:8080/a.png"))
	assert.False(t, IsURL("images/a.png"))
	assert.False(t, IsURL("/abs/a.png"))
	assert.False(t, IsURL("file:///abs/a.png"))
	assert.False(t, IsURL(`C:\pics\a.png`))
}

func TestFetchLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.bin")
	require.NoError(t, os.WriteFile(path, []byte("local"), 0644))

	f := &Fetcher{}
	data, err := f.Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []byte("local"), data)

	_, err = f.Fetch(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFetchRemoteIsCached(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "golens/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte("remote"))
	}))
	defer srv.Close()

	f := &Fetcher{Client: httpClient, CacheDir: t.TempDir()}
	for i := 0; i < 3; i++ {
		data, err := f.Fetch(context.Background(), srv.URL+"/pics/photo.png")
		require.NoError(t, err)
		assert.Equal(t, []byte("remote"), data)
	}
	assert.Equal(t, int32(1), hits.Load())

	entries, err := os.ReadDir(f.CacheDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "photo.png")
}

func TestFetchRemoteWithoutCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("remote"))
	}))
	defer srv.Close()

	f := &Fetcher{}
	for i := 0; i < 2; i++ {
		_, err := f.Fetch(context.Background(), srv.URL+"/a.png")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetchRemoteStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	f := &Fetcher{CacheDir: t.TempDir()}
	_, err := f.Fetch(context.Background(), srv.URL+"/missing.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status code: 404")
}

func TestFetchRemoteCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&Fetcher{}).Fetch(ctx, srv.URL+"/slow.png")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCacheNameDistinguishesHosts(t *testing.T) {
	a := cacheName("https://one.example/img/a.png")
	b := cacheName("https://two.example/img/a.png")
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "-a.png")
	assert.Contains(t, cacheName("https://one.example/"), "-media")
}

func TestGetCacheDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG layout only")
	}
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir, err := getCacheDir("media")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(os.Getenv("XDG_CACHE_HOME"), "golens", "media"), dir)
	assert.DirExists(t, dir)
}
