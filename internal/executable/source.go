// Package executable obtains the launcher binary placed in each bundle,
// either by copying the running executable or by downloading a prebuilt
// release for another platform.
package executable

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"naty/internal/settings"
)

// Acquisition tells how a launcher was obtained
type Acquisition int

const (
	Copied Acquisition = iota
	Downloaded
)

// String returns the string representation of the acquisition
func (a Acquisition) String() string {
	if a == Downloaded {
		return "downloaded"
	}
	return "copied"
}

// Source places a launcher executable named name inside dir and returns its path
type Source interface {
	Materialize(ctx context.Context, dir, name string) (string, error)
}

// Downloader saves a URL into a directory
type Downloader interface {
	Download(ctx context.Context, url, dir, name, msg string) (string, error)
}

// LocalCopySource copies an executable already present on this machine
type LocalCopySource struct {
	Path string
}

// Materialize copies the executable keeping its file mode
func (s *LocalCopySource) Materialize(ctx context.Context, dir, name string) (string, error) {
	dst := filepath.Join(dir, name)
	slog.Info("Copying executable...", "from", s.Path)

	if err := copyFile(s.Path, dst); err != nil {
		return "", fmt.Errorf("failed to copy executable: %w", err)
	}
	return dst, nil
}

// RemoteDownloadSource downloads a prebuilt launcher
type RemoteDownloadSource struct {
	URL        string
	Platform   settings.Platform
	Downloader Downloader
}

// Materialize downloads the launcher and marks it executable on Unix targets
func (s *RemoteDownloadSource) Materialize(ctx context.Context, dir, name string) (string, error) {
	if s.Downloader == nil {
		return "", errors.New("no downloader configured")
	}

	msg := fmt.Sprintf("Downloading %s executable from '%s'...", s.Platform, s.URL)
	path, err := s.Downloader.Download(ctx, s.URL, dir, name, msg)
	if err != nil {
		return "", fmt.Errorf("failed to download %s executable: %w", s.Platform, err)
	}

	if s.Platform != settings.Windows {
		if err := os.Chmod(path, 0755); err != nil {
			return "", fmt.Errorf("failed to make %s executable: %w", path, err)
		}
	}
	return path, nil
}

// SourceFor picks how the launcher for target is obtained: the running
// executable when target is the host, the expanded release template otherwise.
func SourceFor(target, host settings.Platform, exePath, template, version string, d Downloader) Source {
	if target == host {
		return &LocalCopySource{Path: exePath}
	}
	return &RemoteDownloadSource{
		URL:        ExpandTemplate(template, version),
		Platform:   target,
		Downloader: d,
	}
}

// AcquisitionOf reports how src obtains its launcher
func AcquisitionOf(src Source) Acquisition {
	if _, ok := src.(*RemoteDownloadSource); ok {
		return Downloaded
	}
	return Copied
}

// Current returns the path of the running executable with symlinks resolved
func Current() (string, error) {
	path, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate current executable: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return resolved, nil
}

// Helper functions

// copyFile copies src to dst, replacing dst and keeping the mode of src
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	// umask may have narrowed the mode at creation
	return os.Chmod(dst, info.Mode().Perm())
}
