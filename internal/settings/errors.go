package settings

import "fmt"

// ConfigError reports malformed input settings. It is always fatal.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// OptionMismatchError reports a platform-specific option given for a
// platform that is not being bundled.
type OptionMismatchError struct {
	Option   string
	Platform Platform
}

func (e *OptionMismatchError) Error() string {
	return fmt.Sprintf("option %s was given but %s is not in the target platforms", e.Option, e.Platform)
}
