package settings

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com", "example"},
		{"https://www.example.com/some/page", "example"},
		{"http://www.github.io", "github"},
		{"https://docs.rs:8443/x", "docs"},
		{"http://localhost:8080", "localhost"},
		{"example.org/path", "example"},
		{"", DefaultName},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveName(tt.url), tt.url)
	}
}

func TestDisplayName_PrefersConfiguredName(t *testing.T) {
	s := DefaultSettings()
	s.TargetURL = "https://example.com"
	assert.Equal(t, "example", s.DisplayName())

	s.Name = "Example"
	assert.Equal(t, "Example", s.DisplayName())
}

func TestValidate(t *testing.T) {
	s := DefaultSettings()
	s.TargetURL = "https://example.com"
	require.NoError(t, s.Validate())

	for _, bad := range []string{"", "not a url", "example.com", "https://"} {
		s.TargetURL = bad
		err := s.Validate()
		var cfgErr *ConfigError
		require.True(t, errors.As(err, &cfgErr), "url %q: %v", bad, err)
		assert.Equal(t, "target_url", cfgErr.Field)
	}

	s.TargetURL = "https://example.com"
	for _, bad := range []string{"../x", "a/b", `..\x`, "..", "."} {
		s.Name = bad
		err := s.Validate()
		var cfgErr *ConfigError
		require.True(t, errors.As(err, &cfgErr), "name %q: %v", bad, err)
		assert.Equal(t, "name", cfgErr.Field)
	}
	s.Name = "My App..v2"
	require.NoError(t, s.Validate())

	s.MinWidth = 500
	s.MaxWidth = 100
	assert.Error(t, s.Validate())
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, uint32(800), s.Height)
	assert.Equal(t, uint32(1280), s.Width)
	assert.Equal(t, uint32(math.MaxUint32), s.MaxWidth)
	assert.Equal(t, uint32(math.MaxUint32), s.MaxHeight)
	assert.Zero(t, s.MinWidth)
	assert.Zero(t, s.MinHeight)
	assert.Equal(t, ".", s.OutputDir)
}

func TestCheckPlatformOptions(t *testing.T) {
	s := DefaultSettings()
	s.WindowsCommand = "npm start"

	err := s.CheckPlatformOptions([]Platform{Linux})
	var mismatch *OptionMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, Windows, mismatch.Platform)
	assert.Equal(t, "--command-windows", mismatch.Option)

	assert.NoError(t, s.CheckPlatformOptions([]Platform{Linux, Windows}))
}

func TestSnapshotFor_UsesOnlyThatPlatformsCommand(t *testing.T) {
	s := DefaultSettings()
	s.TargetURL = "https://example.com"
	s.LinuxCommand = "./server"
	s.WindowsCommand = "npm start"

	win, err := s.SnapshotFor(Windows).Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(win), `command = "npm start"`)
	assert.NotContains(t, string(win), "linux_command")
	assert.NotContains(t, string(win), "output_dir")
	assert.NotContains(t, string(win), "platforms")

	mac, err := s.SnapshotFor(MacOS).Marshal()
	require.NoError(t, err)
	assert.NotContains(t, string(mac), "command")

	// deriving a snapshot never changes the settings
	assert.Equal(t, "./server", s.SnapshotFor(Linux).Command)
	assert.Equal(t, "npm start", s.WindowsCommand)
}

func TestSnapshot_RoundTripThroughFile(t *testing.T) {
	s := DefaultSettings()
	s.TargetURL = "https://example.com"
	s.Name = "Example"
	s.AlwaysOnTop = true
	s.MacOSCommand = "open -a Server"

	data, err := s.SnapshotFor(MacOS).Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, data, 0644))

	got, err := ReadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, s.SnapshotFor(MacOS), got)
}

func TestReadSnapshot_AppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(`target_url = "https://example.com"`+"\n"), 0644))

	got, err := ReadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(DefaultWidth), got.Width)
	assert.Equal(t, uint32(DefaultHeight), got.Height)
	assert.Equal(t, uint32(math.MaxUint32), got.MaxWidth)
	assert.Empty(t, got.Command)
}

func TestLoadFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	content := strings.Join([]string{
		"target_url: https://example.com",
		"name: Example",
		"width: 640",
		"platforms: [linux, windows]",
		"windows_command: npm start",
		"output_dir: out",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", s.TargetURL)
	assert.Equal(t, "Example", s.Name)
	assert.Equal(t, uint32(640), s.Width)
	assert.Equal(t, uint32(DefaultHeight), s.Height)
	assert.Equal(t, []Platform{Linux, Windows}, s.Platforms)
	assert.Equal(t, "npm start", s.WindowsCommand)
	assert.Equal(t, "out", s.OutputDir)
}

func TestLoadFile_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "naty.toml")
	content := "target_url = \"https://example.com\"\nfull_screen = true\nplatforms = [\"macos\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.True(t, s.FullScreen)
	assert.Equal(t, []Platform{MacOS}, s.Platforms)
	assert.Equal(t, ".", s.OutputDir)
	assert.Equal(t, uint32(math.MaxUint32), s.MaxHeight)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	var cfgErr *ConfigError
	assert.True(t, errors.As(err, &cfgErr))

	bad := filepath.Join(dir, "app.json")
	require.NoError(t, os.WriteFile(bad, []byte("{}"), 0644))
	_, err = LoadFile(bad)
	assert.True(t, errors.As(err, &cfgErr))

	badPlatform := filepath.Join(dir, "app.yml")
	require.NoError(t, os.WriteFile(badPlatform, []byte("platforms: [amiga]\n"), 0644))
	_, err = LoadFile(badPlatform)
	assert.Error(t, err)
}
