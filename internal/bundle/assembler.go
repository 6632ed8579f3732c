// Package bundle assembles one app bundle per target platform: a directory
// holding the launcher, icon.png and naty.toml.
package bundle

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"naty/internal/executable"
	"naty/internal/icon"
	"naty/internal/settings"
)

// IconResolver produces the icon shared by every bundle of a run
type IconResolver interface {
	Resolve(ctx context.Context, s *settings.AppSettings) (*icon.Resolved, error)
}

// Options configures an Assembler
type Options struct {
	// Host is the platform the tool runs on
	Host settings.Platform
	// ExePath is the launcher copied for the host. Empty means the running executable.
	ExePath string
	// Version is substituted into the release templates
	Version string
	// Templates holds the release URL template of each platform
	Templates map[settings.Platform]string

	Icons      IconResolver
	Downloader executable.Downloader
}

// Result describes one produced bundle
type Result struct {
	Platform    settings.Platform
	Dir         string // canonical absolute path
	Name        string
	Executable  string
	Acquisition executable.Acquisition
}

// Assembler builds bundles
type Assembler struct {
	opts Options
}

// NewAssembler creates an assembler. Missing templates default to the
// release templates.
func NewAssembler(opts Options) *Assembler {
	if opts.Templates == nil {
		opts.Templates = executable.ReleaseTemplates()
	}
	return &Assembler{opts: opts}
}

// Run builds the bundles of every resolved platform in order and stops at
// the first failure. Bundles already written are left in place.
func (a *Assembler) Run(ctx context.Context, s *settings.AppSettings) ([]Result, error) {
	// 1. Check the settings before touching the filesystem
	if err := s.Validate(); err != nil {
		return nil, err
	}

	platforms := settings.ResolvePlatforms(s.Platforms, a.opts.Host)
	if err := s.CheckPlatformOptions(platforms); err != nil {
		return nil, err
	}

	exePath := a.opts.ExePath
	if exePath == "" && slices.Contains(platforms, a.opts.Host) {
		current, err := executable.Current()
		if err != nil {
			return nil, err
		}
		exePath = current
	}

	// 2. Resolve the icon once for all bundles
	resolved, err := a.opts.Icons.Resolve(ctx, s)
	if err != nil {
		return nil, err
	}
	slog.Debug("Resolved icon", "origin", resolved.Origin, "image", resolved.Info)

	// 3. One bundle per platform
	results := make([]Result, 0, len(platforms))
	for _, p := range platforms {
		result, err := a.bundle(ctx, s, p, resolved.Data, exePath)
		if err != nil {
			return results, err
		}
		results = append(results, *result)
	}

	return results, nil
}

// Bundle builds the bundle of a single platform using the given icon bytes
func (a *Assembler) Bundle(ctx context.Context, s *settings.AppSettings, p settings.Platform, iconData []byte) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	exePath := a.opts.ExePath
	if exePath == "" && p == a.opts.Host {
		current, err := executable.Current()
		if err != nil {
			return nil, err
		}
		exePath = current
	}
	return a.bundle(ctx, s, p, iconData, exePath)
}

func (a *Assembler) bundle(ctx context.Context, s *settings.AppSettings, p settings.Platform, iconData []byte, exePath string) (*Result, error) {
	name := s.DisplayName()
	snapshot := s.SnapshotFor(p)

	dir := filepath.Join(s.OutputDir, BundleDirName(name, p))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create bundle directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, icon.FileName), iconData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", icon.FileName, err)
	}

	src := executable.SourceFor(p, a.opts.Host, exePath, a.opts.Templates[p], a.opts.Version, a.opts.Downloader)
	exe, err := src.Materialize(ctx, dir, p.ExecutableName(name))
	if err != nil {
		return nil, err
	}

	data, err := snapshot.Marshal()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, settings.ConfigFileName), data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", settings.ConfigFileName, err)
	}

	canonical := canonicalPath(dir)
	slog.Info("Successfully created app bundle", "bundle", BundleDirName(name, p), "path", canonical)

	return &Result{
		Platform:    p,
		Dir:         canonical,
		Name:        name,
		Executable:  exe,
		Acquisition: executable.AcquisitionOf(src),
	}, nil
}

// BundleDirName returns the directory name of a bundle, e.g. "Example-linux"
func BundleDirName(name string, p settings.Platform) string {
	return name + "-" + p.String()
}

// Helper functions

// canonicalPath returns the absolute path of dir with symlinks resolved,
// or the best approximation when resolution fails
func canonicalPath(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
