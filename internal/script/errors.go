package script

import (
	"errors"
	"fmt"
)

// ErrUnknownScript is wrapped by ConfigError when a script name or ID is not
// registered.
var ErrUnknownScript = errors.New("unknown script")

// ConfigError reports a script table that cannot be selected or loaded.
// It is the only error the transliteration pipeline returns.
type ConfigError struct {
	Script string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Script == "" {
		return fmt.Sprintf("script config: %v", e.Err)
	}
	return fmt.Sprintf("script config %q: %v", e.Script, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func configErrorf(script, format string, args ...any) *ConfigError {
	return &ConfigError{Script: script, Err: fmt.Errorf(format, args...)}
}
