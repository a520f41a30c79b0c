package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestClientLogNotifierWithoutClient(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	n := NewClientLogNotifier(zap.New(core))

	// no MCP server in the context: the message still reaches the server log
	n.Info(context.Background(), "Querying index: docs with query: q")
	n.Error(context.Background(), "Error querying index: boom")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
		assert.Equal(t, "Querying index: docs with query: q", entries[0].Message)
		assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
		assert.Equal(t, "Error querying index: boom", entries[1].Message)
	}
}

func TestClientLogNotifierNilLogger(t *testing.T) {
	n := NewClientLogNotifier(nil)
	assert.NotPanics(t, func() {
		n.Info(context.Background(), "hello")
		n.Error(context.Background(), "oops")
	})
}

