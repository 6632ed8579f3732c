package settings

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the file the app runtime reads next to the launcher
const ConfigFileName = "naty.toml"

// Snapshot is the per-bundle view of AppSettings written to naty.toml.
// It carries only the command of the platform being bundled.
type Snapshot struct {
	TargetURL       string `toml:"target_url"`
	Name            string `toml:"name,omitempty"`
	Icon            string `toml:"icon,omitempty"`
	AlwaysOnTop     bool   `toml:"always_on_top"`
	FullScreen      bool   `toml:"full_screen"`
	Height          uint32 `toml:"height"`
	Width           uint32 `toml:"width"`
	HideWindowFrame bool   `toml:"hide_window_frame"`
	ShowMenuBar     bool   `toml:"show_menu_bar"`
	MaxWidth        uint32 `toml:"max_width"`
	MaxHeight       uint32 `toml:"max_height"`
	MinWidth        uint32 `toml:"min_width"`
	MinHeight       uint32 `toml:"min_height"`
	HideTaskbarIcon bool   `toml:"hide_taskbar_icon"`
	Command         string `toml:"command,omitempty"`
}

// SnapshotFor builds the snapshot for one platform. The settings are not modified.
func (s *AppSettings) SnapshotFor(p Platform) Snapshot {
	return Snapshot{
		TargetURL:       s.TargetURL,
		Name:            s.Name,
		Icon:            s.Icon,
		AlwaysOnTop:     s.AlwaysOnTop,
		FullScreen:      s.FullScreen,
		Height:          s.Height,
		Width:           s.Width,
		HideWindowFrame: s.HideWindowFrame,
		ShowMenuBar:     s.ShowMenuBar,
		MaxWidth:        s.MaxWidth,
		MaxHeight:       s.MaxHeight,
		MinWidth:        s.MinWidth,
		MinHeight:       s.MinHeight,
		HideTaskbarIcon: s.HideTaskbarIcon,
		Command:         s.CommandFor(p),
	}
}

// Marshal serializes the snapshot as TOML
func (s Snapshot) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", ConfigFileName, err)
	}
	return buf.Bytes(), nil
}
