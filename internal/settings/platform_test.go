package settings

import (
	"flag"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePlatforms_EmptyUsesHost(t *testing.T) {
	for _, host := range AllPlatforms {
		got := ResolvePlatforms(nil, host)
		assert.Equal(t, []Platform{host}, got)
	}
}

func TestResolvePlatforms_KeepsFirstSeenOrder(t *testing.T) {
	got := ResolvePlatforms([]Platform{Windows, Linux, Windows, MacOS, Linux}, Linux)
	assert.Equal(t, []Platform{Windows, Linux, MacOS}, got)
}

// For any request, the result has no duplicates and lists platforms in the
// order they first appear in the request.
func TestProperty_ResolvePlatforms(t *testing.T) {
	f := func(raw []uint8, hostRaw uint8) bool {
		requested := make([]Platform, len(raw))
		for i, r := range raw {
			requested[i] = Platform(r % 3)
		}
		host := Platform(hostRaw % 3)

		got := ResolvePlatforms(requested, host)
		if len(requested) == 0 {
			return len(got) == 1 && got[0] == host
		}

		seen := map[Platform]bool{}
		var want []Platform
		for _, p := range requested {
			if !seen[p] {
				seen[p] = true
				want = append(want, p)
			}
		}
		if len(got) != len(want) {
			return false
		}
		for i := range got {
			if got[i] != want[i] {
				return false
			}
		}
		return true
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 200}); err != nil {
		t.Errorf("Property test failed: %v", err)
	}
}

func TestPlatformFromGOOS(t *testing.T) {
	tests := []struct {
		goos string
		want Platform
	}{
		{"linux", Linux},
		{"windows", Windows},
		{"darwin", MacOS},
		{"freebsd", Linux},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, platformFromGOOS(tt.goos), tt.goos)
	}
}

func TestParsePlatform(t *testing.T) {
	p, err := ParsePlatform("MacOS")
	require.NoError(t, err)
	assert.Equal(t, MacOS, p)

	_, err = ParsePlatform("beos")
	assert.Error(t, err)
}

func TestPlatform_StringAndExecutableName(t *testing.T) {
	assert.Equal(t, "linux", Linux.String())
	assert.Equal(t, "windows", Windows.String())
	assert.Equal(t, "macos", MacOS.String())
	assert.Equal(t, "unknown", Platform(42).String())

	assert.Equal(t, "app.exe", Windows.ExecutableName("app"))
	assert.Equal(t, "app", Linux.ExecutableName("app"))
	assert.Equal(t, "app", MacOS.ExecutableName("app"))
}

func TestPlatformList_Flag(t *testing.T) {
	var list PlatformList
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Var(&list, "p", "platforms")

	require.NoError(t, fs.Parse([]string{"-p", "linux", "-p", "windows,macos"}))
	assert.Equal(t, PlatformList{Linux, Windows, MacOS}, list)
	assert.Equal(t, "linux,windows,macos", list.String())

	assert.Error(t, list.Set("plan9"))
}
