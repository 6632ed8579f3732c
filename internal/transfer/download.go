package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	// UserAgent is the HTTP User-Agent header value
	UserAgent = "naty-bundler/1.0"

	// maxFetchSize caps in-memory fetches (pages, manifests)
	maxFetchSize = 8 << 20
)

// Downloader performs HTTP transfers through a Pool
type Downloader struct {
	client *http.Client
	pool   *Pool
}

// NewDownloader creates a downloader. A nil client uses a client with a
// 10 minute timeout.
func NewDownloader(pool *Pool, client *http.Client) *Downloader {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Minute}
	}
	if pool == nil {
		pool = NewPool(1)
	}
	return &Downloader{client: client, pool: pool}
}

// Download saves url as dir/name, replacing any existing file.
// msg is logged before the transfer starts. It returns the written path.
func (d *Downloader) Download(ctx context.Context, url, dir, name, msg string) (string, error) {
	path := filepath.Join(dir, name)

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to remove existing %s: %w", path, err)
	}

	if msg != "" {
		slog.Info(msg)
	}

	err := d.pool.Do(ctx, func() error {
		return d.downloadTo(ctx, url, path)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// Fetch reads the body of url into memory
func (d *Downloader) Fetch(ctx context.Context, url string) ([]byte, error) {
	// The job hands its body over a channel: Do may return on cancellation
	// while the job is still running.
	result := make(chan []byte, 1)
	err := d.pool.Do(ctx, func() error {
		resp, err := d.get(ctx, url)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchSize))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", url, err)
		}
		result <- body
		return nil
	})
	if err != nil {
		return nil, err
	}
	return <-result, nil
}

func (d *Downloader) downloadTo(ctx context.Context, url, path string) error {
	resp, err := d.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := file.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	slog.Debug("Download complete", "url", url, "path", path)
	return nil
}

func (d *Downloader) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download of %s failed with status: %d", url, resp.StatusCode)
	}
	return resp, nil
}
