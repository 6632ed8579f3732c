package bundle

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"naty/internal/executable"
	"naty/internal/icon"
	"naty/internal/settings"
	"naty/internal/transfer"
)

// fixedIcons always resolves to the same bytes
type fixedIcons struct {
	data  []byte
	err   error
	calls int
}

func (f *fixedIcons) Resolve(context.Context, *settings.AppSettings) (*icon.Resolved, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &icon.Resolved{Data: f.data, Origin: icon.OriginDefault}, nil
}

// newTestAssembler returns an assembler running on Linux whose Windows and
// macOS launchers are served by srv
func newTestAssembler(t *testing.T, srv *httptest.Server, icons IconResolver) *Assembler {
	t.Helper()
	exe := filepath.Join(t.TempDir(), "naty")
	require.NoError(t, os.WriteFile(exe, []byte("host launcher"), 0755))

	return NewAssembler(Options{
		Host:    settings.Linux,
		ExePath: exe,
		Version: "0.3.1",
		Templates: map[settings.Platform]string{
			settings.Linux:   srv.URL + "/v%version%/naty-linux",
			settings.Windows: srv.URL + "/v%version%/naty-windows.exe",
			settings.MacOS:   srv.URL + "/v%version%/naty-macos",
		},
		Icons:      icons,
		Downloader: transfer.NewDownloader(transfer.NewPool(1), srv.Client()),
	})
}

func releaseServer(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v0.3.1/naty-windows.exe":
			w.Write([]byte("windows launcher"))
		case "/v0.3.1/naty-macos":
			w.Write([]byte("macos launcher"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func exampleSettings(t *testing.T) *settings.AppSettings {
	s := settings.DefaultSettings()
	s.TargetURL = "https://example.com"
	s.Name = "Example"
	s.OutputDir = t.TempDir()
	return s
}

func TestRun_LinuxAndWindows(t *testing.T) {
	icons := &fixedIcons{data: icon.Default()}
	a := newTestAssembler(t, releaseServer(t), icons)

	s := exampleSettings(t)
	s.Platforms = []settings.Platform{settings.Linux, settings.Windows, settings.Linux}
	s.WindowsCommand = "npm start"

	results, err := a.Run(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, icons.calls)

	linuxDir := filepath.Join(s.OutputDir, "Example-linux")
	windowsDir := filepath.Join(s.OutputDir, "Example-windows")

	for _, dir := range []string{linuxDir, windowsDir} {
		data, err := os.ReadFile(filepath.Join(dir, icon.FileName))
		require.NoError(t, err)
		assert.Equal(t, icon.Default(), data)
		assert.FileExists(t, filepath.Join(dir, settings.ConfigFileName))
	}

	exe, err := os.ReadFile(filepath.Join(linuxDir, "Example"))
	require.NoError(t, err)
	assert.Equal(t, "host launcher", string(exe))

	exe, err = os.ReadFile(filepath.Join(windowsDir, "Example.exe"))
	require.NoError(t, err)
	assert.Equal(t, "windows launcher", string(exe))

	windowsSnap, err := settings.ReadSnapshot(filepath.Join(windowsDir, settings.ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, "npm start", windowsSnap.Command)
	assert.Equal(t, "https://example.com", windowsSnap.TargetURL)

	linuxSnap, err := settings.ReadSnapshot(filepath.Join(linuxDir, settings.ConfigFileName))
	require.NoError(t, err)
	assert.Empty(t, linuxSnap.Command)

	raw, err := os.ReadFile(filepath.Join(linuxDir, settings.ConfigFileName))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "command")
	assert.NotContains(t, string(raw), "output_dir")

	assert.Equal(t, settings.Linux, results[0].Platform)
	assert.Equal(t, executable.Copied, results[0].Acquisition)
	assert.True(t, filepath.IsAbs(results[0].Dir))
	assert.Equal(t, settings.Windows, results[1].Platform)
	assert.Equal(t, executable.Downloaded, results[1].Acquisition)
	assert.Equal(t, "Example", results[1].Name)

	// the settings are left untouched
	assert.Equal(t, "npm start", s.WindowsCommand)
	assert.Empty(t, s.LinuxCommand)
}

func TestRun_DefaultsToHostPlatform(t *testing.T) {
	a := newTestAssembler(t, releaseServer(t), &fixedIcons{data: []byte("png")})
	s := exampleSettings(t)
	s.Name = ""

	results, err := a.Run(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, settings.Linux, results[0].Platform)
	assert.DirExists(t, filepath.Join(s.OutputDir, "example-linux"))
}

func TestRun_OptionMismatchWritesNothing(t *testing.T) {
	icons := &fixedIcons{data: []byte("png")}
	a := newTestAssembler(t, releaseServer(t), icons)

	s := exampleSettings(t)
	s.Platforms = []settings.Platform{settings.Linux}
	s.WindowsCommand = "npm start"

	_, err := a.Run(context.Background(), s)
	var mismatch *settings.OptionMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, settings.Windows, mismatch.Platform)
	assert.Zero(t, icons.calls)

	entries, err := os.ReadDir(s.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_InvalidURL(t *testing.T) {
	a := newTestAssembler(t, releaseServer(t), &fixedIcons{data: []byte("png")})
	s := exampleSettings(t)
	s.TargetURL = "example.com"

	_, err := a.Run(context.Background(), s)
	var cfgErr *settings.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestRun_NameOutsideOutputDir(t *testing.T) {
	icons := &fixedIcons{data: []byte("png")}
	a := newTestAssembler(t, releaseServer(t), icons)

	root := t.TempDir()
	s := exampleSettings(t)
	s.OutputDir = filepath.Join(root, "out")
	s.Name = "../escaped"

	_, err := a.Run(context.Background(), s)
	var cfgErr *settings.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "name", cfgErr.Field)
	assert.Zero(t, icons.calls)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_IconErrorAborts(t *testing.T) {
	iconErr := &settings.ConfigError{Field: "icon", Err: os.ErrNotExist}
	a := newTestAssembler(t, releaseServer(t), &fixedIcons{err: iconErr})
	s := exampleSettings(t)

	_, err := a.Run(context.Background(), s)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoDirExists(t, filepath.Join(s.OutputDir, "Example-linux"))
}

func TestRun_DownloadFailureStopsRun(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	a := newTestAssembler(t, srv, &fixedIcons{data: []byte("png")})

	s := exampleSettings(t)
	s.Platforms = []settings.Platform{settings.Linux, settings.Windows, settings.MacOS}

	results, err := a.Run(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	require.Len(t, results, 1)

	// the Linux bundle is complete and kept
	assert.FileExists(t, filepath.Join(s.OutputDir, "Example-linux", settings.ConfigFileName))
	// the Windows bundle stopped before its config was written
	assert.FileExists(t, filepath.Join(s.OutputDir, "Example-windows", icon.FileName))
	assert.NoFileExists(t, filepath.Join(s.OutputDir, "Example-windows", settings.ConfigFileName))
	// macOS was never started
	assert.NoDirExists(t, filepath.Join(s.OutputDir, "Example-macos"))
}

func TestBundle_ReplacesExistingFiles(t *testing.T) {
	a := newTestAssembler(t, releaseServer(t), nil)
	s := exampleSettings(t)

	_, err := a.Bundle(context.Background(), s, settings.MacOS, []byte("first"))
	require.NoError(t, err)
	result, err := a.Bundle(context.Background(), s, settings.MacOS, []byte("second"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(result.Dir, icon.FileName))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
	assert.Equal(t, filepath.Join(s.OutputDir, "Example-macos", "Example"), result.Executable)
}

func TestBundleDirName(t *testing.T) {
	assert.Equal(t, "Example-linux", BundleDirName("Example", settings.Linux))
	assert.Equal(t, "My App-windows", BundleDirName("My App", settings.Windows))
}
