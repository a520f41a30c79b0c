// Package bootstrap reads the server configuration from the process environment and from tools files.
package bootstrap

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
)

// Environment variables understood by the server and by the from-env bootstrap.
const (
	APIKeyEnvVar           = "LLAMA_CLOUD_API_KEY"
	OrgIDEnvVar            = "ORG_ID"
	ProjectNameEnvVar      = "PROJECT_NAME"
	TransportEnvVar        = "TRANSPORT"
	PortEnvVar             = "PORT"
	BaseURLEnvVar          = "LLAMA_CLOUD_BASE_URL"
	LogLevelEnvVar         = "LOG_LEVEL"
	TelemetryEnabledEnvVar = "OTEL_ENABLED"

	// IndexNameEnvVar and IndexDescriptionEnvVar configure a single index.
	// They are ignored when numbered INDEX_<n> variables are present.
	IndexNameEnvVar        = "INDEX_NAME"
	IndexDescriptionEnvVar = "INDEX_DESCRIPTION"

	// IndexEnvVarPrefix and ExtractAgentEnvVarPrefix are followed by 1, 2, ... and hold full descriptors.
	IndexEnvVarPrefix        = "INDEX_"
	ExtractAgentEnvVarPrefix = "EXTRACT_AGENT_"

	fileEnvVarSuffix = "_FILE"
)

// LookupEnvFunc has the signature of os.LookupEnv.
type LookupEnvFunc func(key string) (string, bool)

// Env reads configuration values from environment variables.
// Secrets may also be supplied through a file whose path is held by the <VAR>_FILE variable.
type Env struct {
	lookup LookupEnvFunc
	fs     afero.Fs
}

// NewEnv creates an Env backed by the given lookup function and filesystem.
func NewEnv(lookup LookupEnvFunc, fs afero.Fs) *Env {
	return &Env{lookup: lookup, fs: fs}
}

// OSEnv returns an Env backed by the real process environment and filesystem.
func OSEnv() *Env {
	return NewEnv(os.LookupEnv, afero.NewOsFs())
}

// Get returns the value of the environment variable, or an empty string if it is not set.
func (e *Env) Get(envVar string) string {
	v, _ := e.lookup(envVar)
	return v
}

// GetOrDefault returns the value of the environment variable, or def if it is not set or empty.
func (e *Env) GetOrDefault(envVar, def string) string {
	if v := e.Get(envVar); v != "" {
		return v
	}
	return def
}

// GetOrFile returns the value of the given environment variable.
// If the environment variable is not set, it checks for a corresponding
// _FILE environment variable and reads the value from the file if it exists.
// If neither is set, it returns an empty string.
// If both are set, the value of the original environment variable takes precedence.
func (e *Env) GetOrFile(envVar string) (string, error) {
	if val := e.Get(envVar); val != "" {
		return val, nil
	}

	fileEnvVar := envVar + fileEnvVarSuffix
	filePath := e.Get(fileEnvVar)
	if filePath == "" {
		return "", nil
	}
	data, err := afero.ReadFile(e.fs, filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", fileEnvVar, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Numbered returns the values of prefix1, prefix2, ... in order.
// Scanning stops at the first variable that is missing or empty.
func (e *Env) Numbered(prefix string) []string {
	var values []string
	for i := 1; ; i++ {
		v := e.Get(fmt.Sprintf("%s%d", prefix, i))
		if v == "" {
			return values
		}
		values = append(values, v)
	}
}
