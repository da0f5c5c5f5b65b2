package machine

import "github.com/pkg/errors"

// ConfigError wraps a failure in board assembly or config-memory I/O with
// the board subsystem that raised it, so callers can log a single
// consistent field instead of parsing error text.
type ConfigError struct {
	Subsystem string
	cause     error
}

func (e *ConfigError) Error() string {
	return "machine: " + e.Subsystem + ": " + e.cause.Error()
}

func (e *ConfigError) Unwrap() error { return e.cause }

func newConfigError(subsystem string, cause error) error {
	if cause == nil {
		return nil
	}
	return &ConfigError{Subsystem: subsystem, cause: errors.WithStack(cause)}
}

// ErrROMSize is returned by LoadROM when the supplied image doesn't match
// the board's expected masked-ROM size.
var ErrROMSize = errors.New("machine: ROM image size mismatch")
