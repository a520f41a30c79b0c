package types

// ToolKind identifies which LlamaCloud service a tool forwards its requests to.
type ToolKind string

const (
	// ToolKindIndex tools query a LlamaCloud retrieval index.
	ToolKindIndex ToolKind = "index"
	// ToolKindExtractAgent tools run a LlamaExtract agent against a document.
	ToolKindExtractAgent ToolKind = "extract_agent"
)

// ToolInputSchema defines the schema for the input parameters of a tool
type ToolInputSchema struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
	Required   []string       `json:"required,omitempty"`
}

// Tool describes a tool registered with the MCP server.
// Credentials are never part of this type, so it is safe to print or serve.
type Tool struct {
	Name        string          `json:"name"`
	Kind        ToolKind        `json:"kind"`
	Description string          `json:"description"`
	InputSchema ToolInputSchema `json:"input_schema"`
}
