package mcp

import (
	"context"
	"slices"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mcpjungle/llamacloud-mcp/pkg/types"
	"go.uber.org/zap"
)

// Registration binds a tool name and description to its Handler.
type Registration struct {
	Name        string
	Description string
	Kind        types.ToolKind
	Handler     Handler
}

// Register attaches every registration to the MCP server, in order.
// Names are not checked for uniqueness: a later registration replaces an earlier one with the same name.
func (m *MCPService) Register(regs []Registration) {
	for _, r := range regs {
		m.registerTool(r)
	}
}

func (m *MCPService) registerTool(r Registration) {
	arg := ArgumentName(r.Kind)
	tool := mcp.NewTool(
		r.Name,
		mcp.WithDescription(r.Description),
		mcp.WithString(arg, mcp.Required(), mcp.Description(argumentDescription(r.Kind))),
	)
	m.mcpServer.AddTool(tool, toolCallHandler(arg, r.Handler))

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.toolInstances[r.Name]; exists {
		m.logger.Warn(
			"tool registered more than once, the latest registration replaces the previous one",
			zap.String("tool", r.Name),
		)
	} else {
		m.toolOrder = append(m.toolOrder, r.Name)
	}
	m.toolInstances[r.Name] = types.Tool{
		Name:        r.Name,
		Kind:        r.Kind,
		Description: r.Description,
		InputSchema: inputSchema(r.Kind),
	}
}

// toolCallHandler adapts a Handler to the MCP tool call interface.
// The handler's output is always returned as text content, including the error strings it produces.
func toolCallHandler(arg string, h Handler) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input, err := request.RequireString(arg)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(h(ctx, input)), nil
	}
}

// ListTools returns all registered tools in the order they were first registered.
func (m *MCPService) ListTools() []types.Tool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tools := make([]types.Tool, 0, len(m.toolOrder))
	for _, name := range m.toolOrder {
		tools = append(tools, m.toolInstances[name])
	}
	return tools
}

// ToolNames returns the names of all registered tools, sorted alphabetically.
func (m *MCPService) ToolNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := slices.Clone(m.toolOrder)
	slices.Sort(names)
	return names
}
