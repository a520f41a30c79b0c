package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// loggerName is reported as the origin of log notifications sent to MCP clients.
const loggerName = "llamacloud-mcp"

// Notifier is the diagnostic channel of a tool call.
// Messages are delivered to the client that made the request found in ctx.
type Notifier interface {
	Info(ctx context.Context, msg string)
	Error(ctx context.Context, msg string)
}

// ClientLogNotifier sends log message notifications to the MCP client of the current request
// and mirrors every message into the server log.
type ClientLogNotifier struct {
	logger *zap.Logger
}

// NewClientLogNotifier creates a ClientLogNotifier. A nil logger disables server-side logging.
func NewClientLogNotifier(logger *zap.Logger) *ClientLogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClientLogNotifier{logger: logger}
}

func (n *ClientLogNotifier) Info(ctx context.Context, msg string) {
	n.logger.Info(msg)
	n.send(ctx, mcp.LoggingLevelInfo, msg)
}

func (n *ClientLogNotifier) Error(ctx context.Context, msg string) {
	n.logger.Error(msg)
	n.send(ctx, mcp.LoggingLevelError, msg)
}

// send delivers the notification on a best-effort basis.
// Clients that never enabled logging simply don't get it.
func (n *ClientLogNotifier) send(ctx context.Context, level mcp.LoggingLevel, msg string) {
	srv := server.ServerFromContext(ctx)
	if srv == nil {
		return
	}
	notification := mcp.NewLoggingMessageNotification(level, loggerName, msg)
	if err := srv.SendLogMessageToClient(ctx, notification); err != nil {
		n.logger.Debug("failed to send log notification to MCP client", zap.Error(err))
	}
}
