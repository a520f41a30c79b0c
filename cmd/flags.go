package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mcpjungle/llamacloud-mcp/internal"
	"github.com/mcpjungle/llamacloud-mcp/internal/bootstrap"
	"github.com/mcpjungle/llamacloud-mcp/internal/descriptor"
	"github.com/mcpjungle/llamacloud-mcp/pkg/types"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	// BindHostDefault makes network transports reachable from outside the host, as hosted deployments require.
	BindHostDefault = "0.0.0.0"

	LogLevelDefault = "info"
)

// flags describing the tools to register, shared by the server and the tools command
var (
	toolFlagIndexes       []string
	toolFlagExtractAgents []string
	toolFlagProjectName   string
	toolFlagOrgID         string
	toolFlagAPIKey        string
	toolFlagConfigFile    string
	toolFlagBaseURL       string
	toolFlagLogLevel      string
)

// flags only used when serving
var (
	serverFlagTransport      string
	serverFlagPort           string
	serverFlagHost           string
	serverFlagMetricsEnabled bool
)

func registerToolFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringArrayVar(
		&toolFlagIndexes,
		"index",
		nil,
		fmt.Sprintf("index to expose as a query tool, in the format %s (repeatable)", descriptor.Format),
	)
	f.StringArrayVar(
		&toolFlagExtractAgents,
		"extract-agent",
		nil,
		fmt.Sprintf("extraction agent to expose as an extract tool, in the format %s (repeatable)", descriptor.Format),
	)
	f.StringVar(
		&toolFlagProjectName,
		"project-name",
		"",
		fmt.Sprintf("default LlamaCloud project name (overrides env var %s)", bootstrap.ProjectNameEnvVar),
	)
	f.StringVar(
		&toolFlagOrgID,
		"org-id",
		"",
		fmt.Sprintf("default LlamaCloud organization ID (overrides env var %s)", bootstrap.OrgIDEnvVar),
	)
	f.StringVar(
		&toolFlagAPIKey,
		"api-key",
		"",
		fmt.Sprintf(
			"default LlamaCloud API key (overrides env vars %s and %s_FILE)",
			bootstrap.APIKeyEnvVar, bootstrap.APIKeyEnvVar,
		),
	)
	f.StringVar(
		&toolFlagConfigFile,
		"config",
		"",
		"YAML or TOML (.toml) file listing additional indexes and extraction agents",
	)
	f.StringVar(
		&toolFlagBaseURL,
		"base-url",
		"",
		fmt.Sprintf("LlamaCloud API base URL (overrides env var %s)", bootstrap.BaseURLEnvVar),
	)
	f.StringVar(
		&toolFlagLogLevel,
		"log-level",
		"",
		fmt.Sprintf(
			"log level: debug, info, warn or error (overrides env var %s, default %s)",
			bootstrap.LogLevelEnvVar, LogLevelDefault,
		),
	)
}

func registerServerFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(
		&serverFlagTransport,
		"transport",
		"",
		fmt.Sprintf(
			"transport to serve MCP on: %s, %s or %s (default %s)",
			types.TransportStdio, types.TransportSSE, types.TransportStreamableHTTP, types.TransportStdio,
		),
	)
	f.StringVar(
		&serverFlagPort,
		"port",
		"",
		fmt.Sprintf(
			"port to bind the HTTP server to for network transports (overrides env var %s, default %s)",
			bootstrap.PortEnvVar, bootstrap.DefaultPort,
		),
	)
	f.StringVar(
		&serverFlagHost,
		"host",
		BindHostDefault,
		"interface to bind the HTTP server to for network transports",
	)
	f.BoolVar(
		&serverFlagMetricsEnabled,
		"metrics",
		false,
		fmt.Sprintf(
			"expose prometheus metrics on /metrics for network transports (alternatively, set env var %s)",
			bootstrap.TelemetryEnabledEnvVar,
		),
	)
}

// toolsConfig is the resolved configuration of the tools to register.
type toolsConfig struct {
	defaults    descriptor.Defaults
	descriptors []descriptor.ToolDescriptor
	baseURL     string
}

// flagOrEnv returns the flag value, falling back to the environment variable.
// precedence: command line flag > environment variable
func flagOrEnv(env *bootstrap.Env, flagValue, envVar string) string {
	if flagValue != "" {
		return flagValue
	}
	return env.Get(envVar)
}

// resolveAPIKey returns the default API key.
// precedence: command line flag > environment variable > environment variable _FILE
func resolveAPIKey(env *bootstrap.Env) (string, error) {
	if toolFlagAPIKey != "" {
		return toolFlagAPIKey, nil
	}
	key, err := env.GetOrFile(bootstrap.APIKeyEnvVar)
	if err != nil {
		return "", fmt.Errorf("failed to get API key: %w", err)
	}
	return key, nil
}

// resolveToolsConfig parses all descriptors given on the command line and in the tools file.
// A missing API key is a configuration error.
func resolveToolsConfig(env *bootstrap.Env, fs afero.Fs, logger *zap.Logger) (*toolsConfig, error) {
	apiKey, err := resolveAPIKey(env)
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		return nil, descriptor.NewConfigurationError(
			"API key not found, please pass --api-key or set the %s environment variable", bootstrap.APIKeyEnvVar,
		)
	}
	if err := internal.ValidateAPIKey(apiKey); err != nil {
		return nil, descriptor.NewConfigurationError("invalid API key: %v", err)
	}

	defaults := descriptor.Defaults{
		APIKey:         apiKey,
		OrganizationID: flagOrEnv(env, toolFlagOrgID, bootstrap.OrgIDEnvVar),
		ProjectName:    flagOrEnv(env, toolFlagProjectName, bootstrap.ProjectNameEnvVar),
	}

	indexes, err := descriptor.ParseAll(descriptor.KindIndex, toolFlagIndexes, defaults)
	if err != nil {
		return nil, err
	}
	agents, err := descriptor.ParseAll(descriptor.KindExtractAgent, toolFlagExtractAgents, defaults)
	if err != nil {
		return nil, err
	}
	descs := append(indexes, agents...)

	if toolFlagConfigFile != "" {
		f, err := bootstrap.LoadToolsFile(fs, toolFlagConfigFile)
		if err != nil {
			return nil, err
		}
		fileDescs, err := f.Descriptors(defaults)
		if err != nil {
			return nil, err
		}
		descs = append(descs, fileDescs...)
	}

	for _, d := range descs {
		if len(d.Extra) > 0 {
			logger.Warn(
				"ignoring extra descriptor fields",
				zap.String("tool", d.ToolName()),
				zap.Int("extra_fields", len(d.Extra)),
			)
		}
	}

	return &toolsConfig{
		defaults:    defaults,
		descriptors: descs,
		baseURL:     flagOrEnv(env, toolFlagBaseURL, bootstrap.BaseURLEnvVar),
	}, nil
}

// getTransport returns the transport to serve MCP on.
// precedence: command line flag > default
func getTransport() (types.Transport, error) {
	t := serverFlagTransport
	if t == "" {
		t = string(types.TransportStdio)
	}
	transport, err := types.ValidateTransport(strings.ToLower(t))
	if err != nil {
		return "", descriptor.NewConfigurationError("%v", err)
	}
	return transport, nil
}

// getBindPort returns the TCP port to bind the HTTP server to
// precedence: command line flag > environment variable > default
func getBindPort(env *bootstrap.Env) (string, error) {
	port := serverFlagPort
	if port == "" {
		port = env.GetOrDefault(bootstrap.PortEnvVar, bootstrap.DefaultPort)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return "", descriptor.NewConfigurationError("invalid port '%s': must be a number between 0 and 65535", port)
	}
	return port, nil
}

// isTelemetryEnabled reports whether metrics should be exposed.
// precedence: command line flag > environment variable > disabled
func isTelemetryEnabled(env *bootstrap.Env) (bool, error) {
	if serverFlagMetricsEnabled {
		return true, nil
	}

	v := strings.ToLower(env.Get(bootstrap.TelemetryEnabledEnvVar))
	switch v {
	case "":
		return false, nil
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, descriptor.NewConfigurationError(
			"invalid value for %s environment variable: '%s', valid values are 'true' or 'false'",
			bootstrap.TelemetryEnabledEnvVar, v,
		)
	}
}

// exportAPIKey makes the resolved API key visible to anything else reading the process environment.
func exportAPIKey(apiKey string) error {
	if err := os.Setenv(bootstrap.APIKeyEnvVar, apiKey); err != nil {
		return fmt.Errorf("failed to export %s: %w", bootstrap.APIKeyEnvVar, err)
	}
	return nil
}
