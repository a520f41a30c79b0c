package descriptor

import "fmt"

// ConfigurationError reports invalid startup configuration.
// It is always fatal: the server must not start when one is returned.
type ConfigurationError struct {
	// Value is the offending input, if any.
	Value   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Message
}

// NewConfigurationError builds a ConfigurationError from a format string.
func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}
