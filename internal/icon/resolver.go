// Package icon resolves the single icon shared by every bundle of a run.
package icon

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"naty/internal/imageinfo"
	"naty/internal/settings"
	"naty/internal/siteicons"
)

// FileName is the icon file name inside the output root and in every bundle
const FileName = "icon.png"

//go:embed assets/icon.png
var defaultIcon []byte

// Default returns a copy of the bundled fallback icon
func Default() []byte {
	out := make([]byte, len(defaultIcon))
	copy(out, defaultIcon)
	return out
}

// Origin tells which tier produced the icon
type Origin int

const (
	OriginRemote Origin = iota
	OriginLocal
	OriginWebsite
	OriginDefault
)

// String returns the string representation of the origin
func (o Origin) String() string {
	names := []string{"remote", "local", "website", "default"}
	if o >= 0 && int(o) < len(names) {
		return names[o]
	}
	return "unknown"
}

// Downloader saves a URL into a directory
type Downloader interface {
	Download(ctx context.Context, url, dir, name, msg string) (string, error)
}

// Resolved is the icon chosen for a run. Data must not be modified.
type Resolved struct {
	Data   []byte
	Origin Origin
	Info   imageinfo.Info
}

// Resolver walks the icon tiers: explicit URL, explicit path, website
// scrape, bundled default.
type Resolver struct {
	downloader Downloader
	extractor  siteicons.Extractor
	policy     Policy
}

// NewResolver creates a resolver
func NewResolver(d Downloader, e siteicons.Extractor, policy Policy) *Resolver {
	return &Resolver{downloader: d, extractor: e, policy: policy}
}

// Resolve returns the icon for s. The only error it returns is a
// *settings.ConfigError for an unreadable explicit icon path; every other
// failure falls through to the next tier.
func (r *Resolver) Resolve(ctx context.Context, s *settings.AppSettings) (*Resolved, error) {
	if s.Icon != "" {
		if isRemote(s.Icon) {
			data, err := r.fetch(ctx, s.Icon, s.OutputDir, fmt.Sprintf("Downloading icon from '%s'...", s.Icon))
			if err == nil {
				return finish(data, OriginRemote), nil
			}
			slog.Warn("Failed to download icon, trying it as a local path", "icon", s.Icon, "error", err)
		}

		data, err := os.ReadFile(s.Icon)
		if err != nil {
			return nil, &settings.ConfigError{Field: "icon", Err: err}
		}
		return finish(data, OriginLocal), nil
	}

	data, err := r.fromWebsite(ctx, s)
	if err == nil {
		return finish(data, OriginWebsite), nil
	}
	slog.Info("Unable to extract an icon from the website, using default one", "url", s.TargetURL, "reason", err)

	return &Resolved{
		Data:   Default(),
		Origin: OriginDefault,
		Info:   inspect(defaultIcon),
	}, nil
}

// fromWebsite scrapes the target page and downloads the selected icon
func (r *Resolver) fromWebsite(ctx context.Context, s *settings.AppSettings) ([]byte, error) {
	if r.extractor == nil {
		return nil, errors.New("no icon extractor configured")
	}

	candidates, err := r.extractor.Icons(ctx, s.TargetURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load website icons: %w", err)
	}
	slog.Debug("Available icons", "count", len(candidates))
	for _, c := range candidates {
		size, _ := c.Size()
		slog.Debug("Icon candidate", "url", c.URL, "kind", c.Kind, "format", c.Format, "size", size)
	}

	chosen, ok := Select(candidates, r.policy)
	if !ok {
		return nil, errors.New("website does not have a valid icon")
	}

	return r.fetch(ctx, chosen.URL, s.OutputDir, "Downloading icon...")
}

// fetch downloads rawURL as FileName in dir and reads it back
func (r *Resolver) fetch(ctx context.Context, rawURL, dir, msg string) ([]byte, error) {
	if r.downloader == nil {
		return nil, errors.New("no downloader configured")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	path, err := r.downloader.Download(ctx, rawURL, dir, FileName, msg)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Clean(path))
}

// Helper functions

// finish unwraps a PNG stored inside an ICO container and records the
// image details
func finish(data []byte, origin Origin) *Resolved {
	info := inspect(data)
	if info.Format == imageinfo.FormatICO {
		if payload, ok := imageinfo.ExtractICOPNG(data); ok {
			slog.Debug("Using PNG image stored in ICO icon")
			data = payload
			info = inspect(data)
		}
	}
	if info.Format != imageinfo.FormatPNG {
		slog.Warn("Icon is not a PNG image, the app runtime may not display it", "format", info.Format)
	}
	return &Resolved{Data: data, Origin: origin, Info: info}
}

func inspect(data []byte) imageinfo.Info {
	info, err := imageinfo.Inspect(data)
	if err != nil {
		slog.Debug("Failed to inspect icon", "error", err)
	}
	return info
}

// isRemote reports whether icon is an http(s) URL
func isRemote(icon string) bool {
	u, err := url.Parse(icon)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
