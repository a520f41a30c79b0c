package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/mcpjungle/llamacloud-mcp/internal"
	"github.com/mcpjungle/llamacloud-mcp/internal/api"
	"github.com/mcpjungle/llamacloud-mcp/internal/bootstrap"
	"github.com/mcpjungle/llamacloud-mcp/internal/service/mcp"
	"github.com/mcpjungle/llamacloud-mcp/internal/telemetry"
	"github.com/mcpjungle/llamacloud-mcp/pkg/types"
	"github.com/mcpjungle/llamacloud-mcp/pkg/version"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	// MCPServerName is the name reported to MCP clients during initialization.
	MCPServerName = "llama-index-server"

	telemetryServiceName = "llamacloud-mcp"
)

func runServer(cmd *cobra.Command, args []string) error {
	env := bootstrap.OSEnv()

	logger, err := newLogger(env)
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	transport, err := getTransport()
	if err != nil {
		return err
	}
	var port string
	if transport.IsNetwork() {
		if port, err = getBindPort(env); err != nil {
			return err
		}
	}

	tc, err := resolveToolsConfig(env, afero.NewOsFs(), logger)
	if err != nil {
		return err
	}
	if err := exportAPIKey(tc.defaults.APIKey); err != nil {
		return err
	}
	logger.Debug("resolved default credentials",
		zap.String("api_key", internal.RedactSecret(tc.defaults.APIKey)),
		zap.String("organization_id", tc.defaults.OrganizationID),
		zap.String("project_name", tc.defaults.ProjectName),
	)

	telemetryEnabled, err := isTelemetryEnabled(env)
	if err != nil {
		return err
	}
	if telemetryEnabled && !transport.IsNetwork() {
		logger.Warn("metrics are only exposed by network transports, ignoring", zap.String("transport", string(transport)))
		telemetryEnabled = false
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelProviders, err := telemetry.Init(ctx, &telemetry.Config{
		ServiceName: telemetryServiceName,
		Enabled:     telemetryEnabled,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := otelProviders.Shutdown(context.Background()); err != nil {
			logger.Error("failed to shut down telemetry", zap.Error(err))
		}
	}()

	// A no-op metrics implementation is used unless telemetry is enabled,
	// so the tools never have to check whether metrics are enabled.
	toolMetrics := telemetry.NewNoopCustomMetrics()
	if otelProviders.IsEnabled() {
		toolMetrics, err = telemetry.NewOtelCustomMetrics(otelProviders.Meter)
		if err != nil {
			return fmt.Errorf("failed to create tool metrics: %w", err)
		}
	}

	mcpServer := server.NewMCPServer(
		MCPServerName,
		version.GetVersion(),
		server.WithToolCapabilities(true),
		server.WithLogging(),
	)
	mcpService, err := mcp.NewMCPService(&mcp.ServiceConfig{McpServer: mcpServer, Logger: logger})
	if err != nil {
		return fmt.Errorf("failed to create MCP service: %w", err)
	}

	factoryConfig := &mcp.FactoryConfig{
		Backend:  mcp.NewCloudBackend(tc.baseURL),
		Notifier: mcp.NewClientLogNotifier(logger),
		Metrics:  toolMetrics,
		Fs:       afero.NewOsFs(),
	}
	mcpService.Register(mcp.BuildRegistrations(tc.descriptors, factoryConfig))

	tools := mcpService.ListTools()
	if len(tools) == 0 {
		logger.Warn("no indexes or extraction agents configured, the server exposes no tools")
	}
	for _, t := range tools {
		logger.Info("registered tool", zap.String("tool", t.Name), zap.String("kind", string(t.Kind)))
	}

	if transport == types.TransportStdio {
		logger.Info("serving MCP over stdio", zap.Int("tools", len(tools)))
		if err := serveStdio(ctx, mcpServer, logger); err != nil {
			return fmt.Errorf("failed to run the stdio server: %w", err)
		}
		return nil
	}

	s, err := api.NewServer(&api.ServerOptions{
		Host:          serverFlagHost,
		Port:          port,
		Transport:     transport,
		MCPServer:     mcpServer,
		MCPService:    mcpService,
		OtelProviders: otelProviders,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	cmd.PrintErrf("LlamaCloud MCP server listening on %s (%s)\n", s.Addr(), transport)
	return s.Start(ctx)
}

// serveStdio serves MCP on stdin/stdout until the input is closed or ctx is cancelled.
func serveStdio(ctx context.Context, s *server.MCPServer, logger *zap.Logger) error {
	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(zap.NewStdLog(logger))

	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
