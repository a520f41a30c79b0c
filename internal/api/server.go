// Package api provides the HTTP host for the network transports of the llamacloud-mcp server.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mcpjungle/llamacloud-mcp/internal/service/mcp"
	"github.com/mcpjungle/llamacloud-mcp/internal/telemetry"
	"github.com/mcpjungle/llamacloud-mcp/pkg/types"
	"github.com/mcpjungle/llamacloud-mcp/pkg/version"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const (
	// StreamableHTTPPath is where the streamable http MCP endpoint is mounted.
	StreamableHTTPPath = "/mcp"
	// SSEPath is where SSE clients open their event stream. It matches mcp-go's default.
	SSEPath = "/sse"
	// SSEMessagePath is where SSE clients post their messages. It matches mcp-go's default.
	SSEMessagePath = "/message"

	// RequestIDHeader carries the id assigned to every HTTP request. A client supplied id is kept.
	RequestIDHeader = "X-Request-Id"

	shutdownTimeout = 10 * time.Second
)

type ServerOptions struct {
	// Host is the interface to bind to. Empty means all interfaces.
	Host string
	// Port is the HTTP port to bind the server to
	Port string

	// Transport selects which MCP endpoints are exposed. It must be a network transport.
	Transport types.Transport

	MCPServer  *server.MCPServer
	MCPService *mcp.MCPService

	OtelProviders *telemetry.Providers
	Logger        *zap.Logger
}

// Server hosts the MCP server over HTTP along with health, metadata and metrics endpoints.
type Server struct {
	addr      string
	transport types.Transport
	router    *gin.Engine

	mcpServer  *server.MCPServer
	mcpService *mcp.MCPService

	otelProviders *telemetry.Providers
	logger        *zap.Logger
}

// NewServer initializes a new Gin server that exposes the MCP server over the requested transport.
func NewServer(opts *ServerOptions) (*Server, error) {
	if !opts.Transport.IsNetwork() {
		return nil, fmt.Errorf("transport %q is not served over HTTP", opts.Transport)
	}
	if opts.MCPServer == nil {
		return nil, errors.New("MCP server is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		addr:          net.JoinHostPort(opts.Host, opts.Port),
		transport:     opts.Transport,
		mcpServer:     opts.MCPServer,
		mcpService:    opts.MCPService,
		otelProviders: opts.OtelProviders,
		logger:        logger,
	}
	s.router = s.setupRouter()
	return s, nil
}

// Addr returns the address the server binds to.
func (s *Server) Addr() string {
	return s.addr
}

// Handler returns the HTTP handler serving all endpoints.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until ctx is cancelled (blocking call).
// On cancellation, in-flight requests are given a grace period to complete.
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving MCP over HTTP",
			zap.String("addr", s.addr), zap.String("transport", string(s.transport)))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to run the server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down the server: %w", err)
	}
	return nil
}

// setupRouter sets up the Gin router with the MCP endpoints and the auxiliary endpoints.
func (s *Server) setupRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))

	// if otel is enabled, setup prometheus metrics endpoint
	if s.otelProviders.IsEnabled() {
		r.Use(otelgin.Middleware(s.otelProviders.ServiceName()))
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	r.GET(
		"/health",
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		},
	)
	r.GET("/metadata", s.metadataHandler())

	switch s.transport {
	case types.TransportStreamableHTTP:
		streamableHTTPServer := server.NewStreamableHTTPServer(s.mcpServer)
		r.Any(StreamableHTTPPath, gin.WrapH(streamableHTTPServer))
	case types.TransportSSE:
		sseServer := server.NewSSEServer(s.mcpServer)
		r.Any(SSEPath, gin.WrapH(sseServer.SSEHandler()))
		r.Any(SSEMessagePath, gin.WrapH(sseServer.MessageHandler()))
	}

	return r
}

func (s *Server) metadataHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		m := &types.ServerMetadata{
			Version:   version.GetVersion(),
			Transport: string(s.transport),
			Tools:     []string{},
		}
		if s.mcpService != nil {
			m.Tools = s.mcpService.ToolNames()
		}
		c.JSON(http.StatusOK, m)
	}
}

// requestLogger assigns a request id and logs every completed request at debug level.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		start := time.Now()
		c.Next()
		logger.Debug("http request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
