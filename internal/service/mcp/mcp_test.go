package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mcpjungle/llamacloud-mcp/internal/descriptor"
	"github.com/mcpjungle/llamacloud-mcp/internal/llamacloud"
	"github.com/mcpjungle/llamacloud-mcp/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestServer() *server.MCPServer {
	return server.NewMCPServer("llama-index-server", "test", server.WithToolCapabilities(true), server.WithLogging())
}

func listTools(t *testing.T, s *server.MCPServer) []mcp.Tool {
	t.Helper()

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)
	resp, ok := s.HandleMessage(context.Background(), msg).(mcp.JSONRPCResponse)
	require.True(t, ok, "expected a JSON-RPC response")

	raw, err := json.Marshal(resp.Result)
	require.NoError(t, err)

	var result mcp.ListToolsResult
	require.NoError(t, json.Unmarshal(raw, &result))
	return result.Tools
}

type callResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	IsError bool `json:"isError"`
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) callResult {
	t.Helper()

	params, err := json.Marshal(map[string]any{"name": name, "arguments": args})
	require.NoError(t, err)

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":` + string(params) + `}`)
	resp, ok := s.HandleMessage(context.Background(), msg).(mcp.JSONRPCResponse)
	require.True(t, ok, "expected a JSON-RPC response")

	raw, err := json.Marshal(resp.Result)
	require.NoError(t, err)

	var result callResult
	require.NoError(t, json.Unmarshal(raw, &result))
	return result
}

func TestNewMCPService(t *testing.T) {
	t.Run("nil server", func(t *testing.T) {
		svc, err := NewMCPService(&ServiceConfig{})
		assert.Error(t, err)
		assert.Nil(t, svc)
	})

	t.Run("valid server", func(t *testing.T) {
		s := newTestServer()
		svc, err := NewMCPService(&ServiceConfig{McpServer: s})
		require.NoError(t, err)
		assert.Same(t, s, svc.Server())
		assert.NotNil(t, svc.toolInstances)
		assert.Empty(t, svc.ListTools())
	})
}

func TestRegisterToolsAreListed(t *testing.T) {
	s := newTestServer()
	svc, err := NewMCPService(&ServiceConfig{McpServer: s})
	require.NoError(t, err)

	c := &FactoryConfig{Backend: &fakeBackend{}, Notifier: &recordingNotifier{}}
	faq := indexDescriptor()
	faq.Name = "faq"
	faq.Description = "FAQ"
	svc.Register(BuildRegistrations([]descriptor.ToolDescriptor{indexDescriptor(), faq, agentDescriptor()}, c))

	tools := listTools(t, s)
	require.Len(t, tools, 3)

	byName := make(map[string]mcp.Tool)
	for _, tool := range tools {
		byName[tool.Name] = tool
	}
	require.Contains(t, byName, "query_docs")
	require.Contains(t, byName, "query_faq")
	require.Contains(t, byName, "extract_invoices")

	assert.Equal(t, "Search my docs", byName["query_docs"].Description)
	assert.Equal(t, []string{"query"}, byName["query_docs"].InputSchema.Required)
	assert.Contains(t, byName["query_docs"].InputSchema.Properties, "query")
	assert.Equal(t, []string{"file_path"}, byName["extract_invoices"].InputSchema.Required)

	listed := svc.ListTools()
	require.Len(t, listed, 3)
	assert.Equal(t, "query_docs", listed[0].Name)
	assert.Equal(t, "query_faq", listed[1].Name)
	assert.Equal(t, "extract_invoices", listed[2].Name)
	assert.Equal(t, types.ToolKindExtractAgent, listed[2].Kind)
	assert.Equal(t, []string{"extract_invoices", "query_docs", "query_faq"}, svc.ToolNames())
}

func TestRegisterDuplicateLastWins(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := newTestServer()
	svc, err := NewMCPService(&ServiceConfig{McpServer: s, Logger: zap.New(core)})
	require.NoError(t, err)

	first := indexDescriptor()
	second := indexDescriptor()
	second.Description = "Second docs"

	c := &FactoryConfig{Backend: &fakeBackend{}, Notifier: &recordingNotifier{}}
	svc.Register(BuildRegistrations([]descriptor.ToolDescriptor{first, second}, c))

	tools := listTools(t, s)
	require.Len(t, tools, 1)
	assert.Equal(t, "Second docs", tools[0].Description)

	listed := svc.ListTools()
	require.Len(t, listed, 1)
	assert.Equal(t, "Second docs", listed[0].Description)

	assert.Equal(t, 1, logs.FilterField(zap.String("tool", "query_docs")).Len())
}

func TestRegisterNothing(t *testing.T) {
	s := newTestServer()
	svc, err := NewMCPService(&ServiceConfig{McpServer: s})
	require.NoError(t, err)

	svc.Register(nil)
	assert.Empty(t, listTools(t, s))
}

func TestCallTool(t *testing.T) {
	score := 0.9
	backend := &fakeBackend{nodes: []llamacloud.ScoredNode{
		{Node: llamacloud.TextNode{ID: "n1", Text: "hello"}, Score: &score},
	}}
	s := newTestServer()
	svc, err := NewMCPService(&ServiceConfig{McpServer: s})
	require.NoError(t, err)
	svc.Register(BuildRegistrations(
		[]descriptor.ToolDescriptor{indexDescriptor()},
		&FactoryConfig{Backend: backend, Notifier: NewClientLogNotifier(nil)},
	))

	t.Run("returns handler output as text", func(t *testing.T) {
		res := callTool(t, s, "query_docs", map[string]any{"query": "greeting"})
		assert.False(t, res.IsError)
		require.Len(t, res.Content, 1)
		assert.Equal(t, "text", res.Content[0].Type)
		assert.Equal(t, "Node ID: n1\nScore: 0.9\nText: hello", res.Content[0].Text)
	})

	t.Run("missing argument", func(t *testing.T) {
		res := callTool(t, s, "query_docs", map[string]any{"file_path": "/x"})
		assert.True(t, res.IsError)
	})
}

func TestCallToolAgainstCloudBackend(t *testing.T) {
	cloud := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/projects":
			_, _ = w.Write([]byte(`[{"id":"proj-1","name":"P1"}]`))
		case "/api/v1/pipelines":
			_, _ = w.Write([]byte(`[{"id":"pipe-1","name":"docs","project_id":"proj-1"}]`))
		case "/api/v1/pipelines/pipe-1/retrieve":
			_, _ = w.Write([]byte(`{"pipeline_id":"pipe-1","retrieval_nodes":[{"node":{"id_":"n7","text":"from cloud"},"score":1}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Not Found"}`))
		}
	}))
	defer cloud.Close()

	s := newTestServer()
	svc, err := NewMCPService(&ServiceConfig{McpServer: s})
	require.NoError(t, err)

	missing := indexDescriptor()
	missing.Name = "missing"
	svc.Register(BuildRegistrations(
		[]descriptor.ToolDescriptor{indexDescriptor(), missing},
		&FactoryConfig{Backend: NewCloudBackend(cloud.URL), Notifier: NewClientLogNotifier(zap.NewNop())},
	))

	res := callTool(t, s, "query_docs", map[string]any{"query": "q"})
	require.Len(t, res.Content, 1)
	assert.Equal(t, "Node ID: n7\nScore: 1\nText: from cloud", res.Content[0].Text)

	res = callTool(t, s, "query_missing", map[string]any{"query": "q"})
	require.Len(t, res.Content, 1)
	assert.False(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "Error querying index: ")
}
