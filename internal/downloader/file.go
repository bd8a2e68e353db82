// Package downloader fetches files over plain HTTP with retry and backoff.
package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DefaultImageName is used when the URL path has no usable base name.
const DefaultImageName = "downloaded_image.jpg"

// FetchToFile downloads rawURL into dir and returns the written file path.
// The file is named after the last URL path element (DefaultImageName when
// there is none). Data is staged in a temporary file and renamed into place
// once complete.
func FetchToFile(ctx context.Context, client *http.Client, rawURL, dir string, cfg TransportConfig) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	name, err := FileNameFromURL(rawURL)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, ".partial-*")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	err = withRetry(ctx, cfg, func() error {
		if _, err := tmp.Seek(0, io.SeekStart); err != nil {
			return err
		}
		if err := tmp.Truncate(0); err != nil {
			return err
		}
		return fetchOnce(ctx, client, rawURL, cfg.Headers, tmp)
	})
	if err != nil {
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	dest := filepath.Join(dir, name)
	if err := os.Rename(tmpPath, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func fetchOnce(ctx context.Context, client *http.Client, rawURL string, headers http.Header, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	applyRequestHeaders(req, headers)
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &HTTPStatusError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

// FileNameFromURL returns the base name of the URL path, reduced to a single
// safe path element. Empty and dot-prefixed names become DefaultImageName.
func FileNameFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	name := path.Base(u.Path)
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "" || name == "/" || strings.HasPrefix(name, ".") {
		return DefaultImageName, nil
	}
	return name, nil
}
