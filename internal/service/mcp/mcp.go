// Package mcp turns tool descriptors into MCP tools backed by LlamaCloud and registers them with the MCP server.
package mcp

import (
	"errors"
	"sync"

	"github.com/mark3labs/mcp-go/server"
	"github.com/mcpjungle/llamacloud-mcp/pkg/types"
	"go.uber.org/zap"
)

// ServiceConfig holds the configuration parameters for initializing the MCPService.
type ServiceConfig struct {
	// McpServer is the MCP server runtime the tools are registered with. It is mandatory.
	McpServer *server.MCPServer

	Logger *zap.Logger
}

// MCPService registers LlamaCloud tools with the MCP server and keeps track of what was registered.
type MCPService struct {
	mcpServer *server.MCPServer

	// toolInstances keeps track of all the registered tools, keyed by their names.
	toolInstances map[string]types.Tool
	// toolOrder holds tool names in the order they were first registered.
	toolOrder []string
	mu        sync.RWMutex

	logger *zap.Logger
}

// NewMCPService creates a new instance of MCPService.
// It fails if no MCP server is supplied, because tools could not be registered anywhere.
func NewMCPService(c *ServiceConfig) (*MCPService, error) {
	if c.McpServer == nil {
		return nil, errors.New("MCP server must be initialized before tools can be registered")
	}
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MCPService{
		mcpServer:     c.McpServer,
		toolInstances: make(map[string]types.Tool),
		logger:        logger,
	}, nil
}

// Server returns the MCP server the tools are registered with.
func (m *MCPService) Server() *server.MCPServer {
	return m.mcpServer
}
