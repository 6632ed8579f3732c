package settings

import (
	"fmt"
	"runtime"
	"strings"
)

// Platform is a target operating system for a bundle
type Platform int

const (
	Linux Platform = iota
	Windows
	MacOS
)

// AllPlatforms lists every supported platform in declaration order
var AllPlatforms = []Platform{Linux, Windows, MacOS}

// String returns the platform tag used in bundle directory names
func (p Platform) String() string {
	names := []string{"linux", "windows", "macos"}
	if p >= 0 && int(p) < len(names) {
		return names[p]
	}
	return "unknown"
}

// ExecutableName returns the launcher file name for this platform
func (p Platform) ExecutableName(name string) string {
	if p == Windows {
		return name + ".exe"
	}
	return name
}

// ParsePlatform parses a platform tag (case-insensitive)
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linux":
		return Linux, nil
	case "windows":
		return Windows, nil
	case "macos", "mac", "darwin":
		return MacOS, nil
	}
	return 0, fmt.Errorf("unknown platform %q (expected linux, windows or macos)", s)
}

// MarshalText implements encoding.TextMarshaler
func (p Platform) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Platform) UnmarshalText(text []byte) error {
	parsed, err := ParsePlatform(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// HostPlatform returns the platform the tool is running on
func HostPlatform() Platform {
	return platformFromGOOS(runtime.GOOS)
}

func platformFromGOOS(goos string) Platform {
	switch goos {
	case "windows":
		return Windows
	case "darwin":
		return MacOS
	default:
		return Linux
	}
}

// ResolvePlatforms normalizes the requested platform list.
// An empty request yields only the host platform; otherwise duplicates are
// removed keeping the order of first occurrence.
func ResolvePlatforms(requested []Platform, host Platform) []Platform {
	if len(requested) == 0 {
		return []Platform{host}
	}

	seen := make(map[Platform]bool, len(requested))
	resolved := make([]Platform, 0, len(requested))
	for _, p := range requested {
		if seen[p] {
			continue
		}
		seen[p] = true
		resolved = append(resolved, p)
	}
	return resolved
}

// PlatformList is a repeatable flag value accepting platform tags.
// Each occurrence may also hold a comma separated list.
type PlatformList []Platform

// String implements flag.Value
func (l *PlatformList) String() string {
	if l == nil {
		return ""
	}
	tags := make([]string, len(*l))
	for i, p := range *l {
		tags[i] = p.String()
	}
	return strings.Join(tags, ",")
}

// Set implements flag.Value
func (l *PlatformList) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		p, err := ParsePlatform(part)
		if err != nil {
			return err
		}
		*l = append(*l, p)
	}
	return nil
}
