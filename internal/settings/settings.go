// Package settings holds the app settings that drive bundle generation and
// the per-platform snapshot written into each bundle as naty.toml.
package settings

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
)

const (
	// DefaultName is used when no name is given and none can be derived from the URL
	DefaultName = "Application Title"

	DefaultHeight = 800
	DefaultWidth  = 1280
)

// AppSettings holds everything needed to build the bundles of one app
type AppSettings struct {
	// Creation
	TargetURL string `toml:"target_url" yaml:"target_url"`
	Name      string `toml:"name" yaml:"name"` // empty means derived from TargetURL
	Icon      string `toml:"icon" yaml:"icon"` // local path or URL, empty means auto-discover

	// Window
	AlwaysOnTop     bool   `toml:"always_on_top" yaml:"always_on_top"`
	FullScreen      bool   `toml:"full_screen" yaml:"full_screen"`
	Height          uint32 `toml:"height" yaml:"height"`
	Width           uint32 `toml:"width" yaml:"width"`
	HideWindowFrame bool   `toml:"hide_window_frame" yaml:"hide_window_frame"`
	ShowMenuBar     bool   `toml:"show_menu_bar" yaml:"show_menu_bar"`
	MaxWidth        uint32 `toml:"max_width" yaml:"max_width"`
	MaxHeight       uint32 `toml:"max_height" yaml:"max_height"`
	MinWidth        uint32 `toml:"min_width" yaml:"min_width"`
	MinHeight       uint32 `toml:"min_height" yaml:"min_height"`
	HideTaskbarIcon bool   `toml:"hide_taskbar_icon" yaml:"hide_taskbar_icon"`

	// Startup command per platform
	LinuxCommand   string `toml:"linux_command" yaml:"linux_command"`
	WindowsCommand string `toml:"windows_command" yaml:"windows_command"`
	MacOSCommand   string `toml:"macos_command" yaml:"macos_command"`

	// Generation only, never written into a bundle
	OutputDir string     `toml:"output_dir" yaml:"output_dir"`
	Platforms []Platform `toml:"platforms" yaml:"platforms"`
}

// DefaultSettings returns settings with every default applied
func DefaultSettings() *AppSettings {
	return &AppSettings{
		Height:    DefaultHeight,
		Width:     DefaultWidth,
		MaxWidth:  math.MaxUint32,
		MaxHeight: math.MaxUint32,
		MinWidth:  0,
		MinHeight: 0,
		OutputDir: ".",
	}
}

// Validate checks the settings before any bundle is produced
func (s *AppSettings) Validate() error {
	if s.TargetURL == "" {
		return &ConfigError{Field: "target_url", Err: errors.New("a target URL is required")}
	}
	if _, err := ParseTargetURL(s.TargetURL); err != nil {
		return &ConfigError{Field: "target_url", Err: err}
	}
	if err := checkName(s.Name); err != nil {
		return &ConfigError{Field: "name", Err: err}
	}
	if s.MinWidth > s.MaxWidth {
		return &ConfigError{Field: "min_width", Err: fmt.Errorf("%d is greater than max_width %d", s.MinWidth, s.MaxWidth)}
	}
	if s.MinHeight > s.MaxHeight {
		return &ConfigError{Field: "min_height", Err: fmt.Errorf("%d is greater than max_height %d", s.MinHeight, s.MaxHeight)}
	}
	return nil
}

// ParseTargetURL parses a URL that must carry both a scheme and a host
func ParseTargetURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("%q has no scheme (e.g. https://)", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%q has no host", raw)
	}
	return u, nil
}

// DisplayName returns the configured name or one derived from the target URL
func (s *AppSettings) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return DeriveName(s.TargetURL)
}

// DeriveName derives an app name from a URL: the host without a "www."
// prefix and without its top-level domain ("https://www.example.com/x"
// becomes "example").
func DeriveName(rawURL string) string {
	host := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = u.Hostname()
	} else {
		for _, prefix := range []string{"https://", "http://"} {
			host = strings.TrimPrefix(host, prefix)
		}
		if idx := strings.IndexAny(host, "/:?#"); idx >= 0 {
			host = host[:idx]
		}
	}

	host = strings.TrimPrefix(host, "www.")
	if idx := strings.LastIndex(host, "."); idx >= 0 {
		host = host[:idx]
	}

	if host == "" {
		return DefaultName
	}
	return host
}

// checkName rejects names that would place a bundle outside the output
// directory. The name becomes a single path element.
func checkName(name string) error {
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%q must not contain path separators", name)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("%q is not a valid app name", name)
	}
	return nil
}

// CommandFor returns the startup command configured for a platform
func (s *AppSettings) CommandFor(p Platform) string {
	switch p {
	case Linux:
		return s.LinuxCommand
	case Windows:
		return s.WindowsCommand
	case MacOS:
		return s.MacOSCommand
	}
	return ""
}

// CheckPlatformOptions rejects platform-specific options given for
// platforms outside the resolved set.
func (s *AppSettings) CheckPlatformOptions(platforms []Platform) error {
	selected := make(map[Platform]bool, len(platforms))
	for _, p := range platforms {
		selected[p] = true
	}

	for _, p := range AllPlatforms {
		if s.CommandFor(p) != "" && !selected[p] {
			return &OptionMismatchError{Option: "--command-" + p.String(), Platform: p}
		}
	}
	return nil
}
