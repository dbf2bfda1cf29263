package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

// Global client with a custom User-Agent header.
var httpClient = &http.Client{
	Transport: &http.Transport{
		Proxy: http.ProxyFromEnvironment,
	},
}

type headerTransport struct {
	Transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", "golens/1.0")
	return t.Transport.RoundTrip(req)
}

func init() {
	httpClient.Transport = &headerTransport{Transport: http.DefaultTransport}
}

// maxDownload bounds a single remote image.
const maxDownload = 64 << 20

// IsURL reports whether src names a remote http(s) resource.
func IsURL(src string) bool {
	u, err := url.Parse(src)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Fetcher reads image sources from local paths or URLs. Remote sources are
// cached on disk when CacheDir is set.
type Fetcher struct {
	Client   *http.Client
	CacheDir string
}

// NewFetcher returns a fetcher using the shared client. With useCache the
// OS cache directory is used for downloads.
func NewFetcher(useCache bool) (*Fetcher, error) {
	f := &Fetcher{Client: httpClient}
	if useCache {
		cacheDir, err := getCacheDir("media")
		if err != nil {
			return nil, fmt.Errorf("could not get cache directory: %w", err)
		}
		f.CacheDir = cacheDir
	}
	return f, nil
}

// Fetch returns the raw bytes of src.
func (f *Fetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	if !IsURL(src) {
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", src, err)
		}
		return data, nil
	}

	var cachePath string
	if f.CacheDir != "" {
		cachePath = filepath.Join(f.CacheDir, cacheName(src))
		if data, err := os.ReadFile(cachePath); err == nil && len(data) > 0 {
			return data, nil
		}
	}

	data, err := f.download(ctx, src)
	if err != nil {
		return nil, err
	}

	if cachePath != "" {
		if err := os.WriteFile(cachePath, data, 0644); err != nil {
			log.Printf("Warning: failed to save media to cache at %s: %v", cachePath, err)
		}
	}
	return data, nil
}

func (f *Fetcher) download(ctx context.Context, src string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = httpClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", src, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download media %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to load media %s, status code: %d", src, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownload+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read media data from %s: %w", src, err)
	}
	if len(data) > maxDownload {
		return nil, fmt.Errorf("media %s exceeds %d bytes", src, maxDownload)
	}
	return data, nil
}

// cacheName keeps the file name of the URL readable and prefixes a hash of
// the full URL so different hosts do not collide.
func cacheName(src string) string {
	sum := sha256.Sum256([]byte(src))
	base := "media"
	if u, err := url.Parse(src); err == nil {
		if b := path.Base(u.Path); b != "/" && b != "." {
			base = b
		}
	}
	base = strings.Map(func(r rune) rune {
		if r == os.PathSeparator || r == ':' {
			return '_'
		}
		return r
	}, base)
	return hex.EncodeToString(sum[:8]) + "-" + base
}

// getCacheDir determines the appropriate OS-specific cache directory.
func getCacheDir(subdir string) (string, error) {
	var baseCacheDir string
	var err error

	switch runtime.GOOS {
	case "windows":
		baseCacheDir = os.Getenv("LOCALAPPDATA")
		if baseCacheDir == "" {
			err = fmt.Errorf("LOCALAPPDATA environment variable not set")
		}
	case "darwin":
		homeDir := os.Getenv("HOME")
		if homeDir == "" {
			err = fmt.Errorf("HOME environment variable not set")
		} else {
			baseCacheDir = filepath.Join(homeDir, "Library", "Caches")
		}
	default: // linux, bsd, etc.
		baseCacheDir = os.Getenv("XDG_CACHE_HOME")
		if baseCacheDir == "" {
			homeDir := os.Getenv("HOME")
			if homeDir == "" {
				err = fmt.Errorf("HOME environment variable not set")
			} else {
				baseCacheDir = filepath.Join(homeDir, ".cache")
			}
		}
	}

	if err != nil {
		return "", err
	}

	cacheDir := filepath.Join(baseCacheDir, "golens", subdir)
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory at %s: %w", cacheDir, err)
	}

	return cacheDir, nil
}
