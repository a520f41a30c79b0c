package cmd

import (
	"os"

	"github.com/mcpjungle/llamacloud-mcp/internal/bootstrap"
	"github.com/mcpjungle/llamacloud-mcp/internal/descriptor"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the process logger.
// Logs always go to stderr because stdout carries the MCP protocol when the stdio transport is used.
func newLogger(env *bootstrap.Env) (*zap.Logger, error) {
	levelName := toolFlagLogLevel
	if levelName == "" {
		levelName = env.GetOrDefault(bootstrap.LogLevelEnvVar, LogLevelDefault)
	}
	level, err := zapcore.ParseLevel(levelName)
	if err != nil {
		return nil, descriptor.NewConfigurationError("invalid log level '%s'", levelName)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(core), nil
}

// syncLogger flushes buffered log entries. Errors are ignored because syncing stderr fails on some platforms.
func syncLogger(logger *zap.Logger) {
	_ = logger.Sync()
}
