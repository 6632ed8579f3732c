package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"naty/internal/settings"
)

// cliOptions holds the parsed command line
type cliOptions struct {
	configPath  string
	iconPolicy  string
	probeIcons  bool
	debug       bool
	showVersion bool

	flags     settings.AppSettings // values bound to flags
	platforms settings.PlatformList
	targetURL string
	set       map[string]bool // canonical names of flags given explicitly
}

// shorthands maps short flag names to their long form
var shorthands = map[string]string{
	"c": "config",
	"o": "output-dir",
	"n": "name",
	"p": "platforms",
	"i": "icon",
}

// uint32Value is a flag.Value for uint32 window dimensions
type uint32Value struct {
	p *uint32
}

func (v uint32Value) String() string {
	if v.p == nil {
		return "0"
	}
	return strconv.FormatUint(uint64(*v.p), 10)
}

func (v uint32Value) Set(s string) error {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return errors.New("expected an unsigned 32-bit integer")
	}
	*v.p = uint32(n)
	return nil
}

// newFlagSet binds every command line flag to o
func newFlagSet(o *cliOptions, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("naty", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() { printUsage(fs) }

	defaults := settings.DefaultSettings()
	o.flags = *defaults
	v := &o.flags

	// Generation
	fs.StringVar(&o.configPath, "config", "", "Read settings from a YAML or TOML file")
	fs.StringVar(&o.configPath, "c", "", "Shorthand for --config")
	fs.StringVar(&v.OutputDir, "output-dir", defaults.OutputDir, "Directory the bundles are created in")
	fs.StringVar(&v.OutputDir, "o", defaults.OutputDir, "Shorthand for --output-dir")
	fs.StringVar(&v.Name, "name", "", "App name (default derived from the URL)")
	fs.StringVar(&v.Name, "n", "", "Shorthand for --name")
	fs.Var(&o.platforms, "platforms", "Target platform: linux, windows or macos (repeatable, comma separated)")
	fs.Var(&o.platforms, "p", "Shorthand for --platforms")
	fs.StringVar(&v.Icon, "icon", "", "Icon path or URL (default taken from the website)")
	fs.StringVar(&v.Icon, "i", "", "Shorthand for --icon")
	fs.StringVar(&o.iconPolicy, "icon-policy", "first", "Website icon selection: first or largest")
	fs.BoolVar(&o.probeIcons, "probe-icons", true, "Download website icons without declared sizes to measure them")

	// Window
	fs.BoolVar(&v.AlwaysOnTop, "always-on-top", false, "Keep the window above every other window")
	fs.BoolVar(&v.FullScreen, "full-screen", false, "Start in full screen")
	fs.Var(uint32Value{&v.Height}, "height", "Initial window height")
	fs.Var(uint32Value{&v.Width}, "width", "Initial window width")
	fs.BoolVar(&v.HideWindowFrame, "hide-window-frame", false, "Hide the window decorations")
	fs.BoolVar(&v.ShowMenuBar, "show-menu-bar", false, "Show the menu bar")
	fs.Var(uint32Value{&v.MaxWidth}, "max-width", "Maximum window width")
	fs.Var(uint32Value{&v.MaxHeight}, "max-height", "Maximum window height")
	fs.Var(uint32Value{&v.MinWidth}, "min-width", "Minimum window width")
	fs.Var(uint32Value{&v.MinHeight}, "min-height", "Minimum window height")
	fs.BoolVar(&v.HideTaskbarIcon, "hide-taskbar-icon", false, "Do not show the app in the taskbar")

	// Startup commands
	fs.StringVar(&v.LinuxCommand, "command-linux", "", "Command run before the app starts on Linux")
	fs.StringVar(&v.WindowsCommand, "command-windows", "", "Command run before the app starts on Windows")
	fs.StringVar(&v.MacOSCommand, "command-macos", "", "Command run before the app starts on macOS")

	// Tool
	fs.BoolVar(&o.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&o.showVersion, "version", false, "Print the version and exit")

	return fs
}

// parseArgs parses args. Flags may appear before or after the target URL.
func parseArgs(args []string, output io.Writer) (*cliOptions, error) {
	o := &cliOptions{set: make(map[string]bool)}
	fs := newFlagSet(o, output)

	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		rest = fs.Args()
		if len(rest) == 0 {
			break
		}
		if o.targetURL != "" {
			return nil, fmt.Errorf("unexpected argument %q", rest[0])
		}
		o.targetURL = rest[0]
		rest = rest[1:]
	}

	fs.Visit(func(f *flag.Flag) {
		name := f.Name
		if long, ok := shorthands[name]; ok {
			name = long
		}
		o.set[name] = true
	})
	return o, nil
}

// settings builds the app settings: defaults, then the config file, then
// every flag given explicitly, then the target URL argument.
func (o *cliOptions) settings() (*settings.AppSettings, error) {
	s := settings.DefaultSettings()
	if o.configPath != "" {
		loaded, err := settings.LoadFile(o.configPath)
		if err != nil {
			return nil, err
		}
		s = loaded
	}

	for name := range o.set {
		o.apply(s, name)
	}
	if o.targetURL != "" {
		s.TargetURL = o.targetURL
	}
	return s, nil
}

// apply copies the value of flag name into s
func (o *cliOptions) apply(s *settings.AppSettings, name string) {
	v := &o.flags
	switch name {
	case "output-dir":
		s.OutputDir = v.OutputDir
	case "name":
		s.Name = v.Name
	case "platforms":
		s.Platforms = []settings.Platform(o.platforms)
	case "icon":
		s.Icon = v.Icon
	case "always-on-top":
		s.AlwaysOnTop = v.AlwaysOnTop
	case "full-screen":
		s.FullScreen = v.FullScreen
	case "height":
		s.Height = v.Height
	case "width":
		s.Width = v.Width
	case "hide-window-frame":
		s.HideWindowFrame = v.HideWindowFrame
	case "show-menu-bar":
		s.ShowMenuBar = v.ShowMenuBar
	case "max-width":
		s.MaxWidth = v.MaxWidth
	case "max-height":
		s.MaxHeight = v.MaxHeight
	case "min-width":
		s.MinWidth = v.MinWidth
	case "min-height":
		s.MinHeight = v.MinHeight
	case "hide-taskbar-icon":
		s.HideTaskbarIcon = v.HideTaskbarIcon
	case "command-linux":
		s.LinuxCommand = v.LinuxCommand
	case "command-windows":
		s.WindowsCommand = v.WindowsCommand
	case "command-macos":
		s.MacOSCommand = v.MacOSCommand
	}
}

func printUsage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintln(out, "naty - Turn any website into a desktop app")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  naty [flags] TARGET_URL")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Flags:")
	fs.PrintDefaults()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Example:")
	fmt.Fprintln(out, "  naty -p linux -p windows --command-windows \"npm start\" https://example.com")
}
