package executable

import (
	"os"
	"strings"

	"naty/internal/settings"
)

const (
	// DefaultReleaseBase is where the prebuilt launchers of every release live
	DefaultReleaseBase = "https://github.com/LyonSyonII/naty/releases/download"

	// ReleaseBaseEnv overrides DefaultReleaseBase
	ReleaseBaseEnv = "NATY_RELEASE_BASE"

	// VersionPlaceholder is replaced by the build version in release templates
	VersionPlaceholder = "%version%"
)

// assetNames maps each platform to its launcher asset in a release
var assetNames = map[settings.Platform]string{
	settings.Linux:   "naty-linux",
	settings.Windows: "naty-windows.exe",
	settings.MacOS:   "naty-macos",
}

// ReleaseTemplate returns the download URL template of the launcher for p,
// e.g. ".../download/v%version%/naty-linux"
func ReleaseTemplate(p settings.Platform) string {
	return releaseBase() + "/v" + VersionPlaceholder + "/" + assetNames[p]
}

// ReleaseTemplates returns the templates of every platform
func ReleaseTemplates() map[settings.Platform]string {
	templates := make(map[settings.Platform]string, len(settings.AllPlatforms))
	for _, p := range settings.AllPlatforms {
		templates[p] = ReleaseTemplate(p)
	}
	return templates
}

// ExpandTemplate substitutes version into template. A leading "v" on the
// version is dropped since templates already carry it.
func ExpandTemplate(template, version string) string {
	return strings.ReplaceAll(template, VersionPlaceholder, strings.TrimPrefix(version, "v"))
}

func releaseBase() string {
	if base, ok := os.LookupEnv(ReleaseBaseEnv); ok && strings.TrimSpace(base) != "" {
		return strings.TrimRight(strings.TrimSpace(base), "/")
	}
	return DefaultReleaseBase
}
