package mcp

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mcpjungle/llamacloud-mcp/internal/llamacloud"
	"github.com/mcpjungle/llamacloud-mcp/pkg/types"
)

const (
	// queryArg is the single input argument of index tools.
	queryArg = "query"
	// filePathArg is the single input argument of extraction tools.
	filePathArg = "file_path"

	noResults = "No results found."
)

// ArgumentName returns the name of the single string argument accepted by tools of the given kind.
func ArgumentName(kind types.ToolKind) string {
	if kind == types.ToolKindExtractAgent {
		return filePathArg
	}
	return queryArg
}

func argumentDescription(kind types.ToolKind) string {
	if kind == types.ToolKindExtractAgent {
		return "Path of the file to extract data from"
	}
	return "The query to run against the index"
}

func inputSchema(kind types.ToolKind) types.ToolInputSchema {
	arg := ArgumentName(kind)
	return types.ToolInputSchema{
		Type: "object",
		Properties: map[string]any{
			arg: map[string]any{
				"type":        "string",
				"description": argumentDescription(kind),
			},
		},
		Required: []string{arg},
	}
}

// formatRetrievalNodes renders retrieved nodes as blank-line separated blocks.
func formatRetrievalNodes(nodes []llamacloud.ScoredNode) string {
	if len(nodes) == 0 {
		return noResults
	}
	blocks := make([]string, 0, len(nodes))
	for _, n := range nodes {
		blocks = append(blocks, fmt.Sprintf(
			"Node ID: %s\nScore: %s\nText: %s", n.Node.ID, formatScore(n.Score), n.Node.Text,
		))
	}
	return strings.Join(blocks, "\n\n")
}

func formatScore(score *float64) string {
	if score == nil {
		return "None"
	}
	return strconv.FormatFloat(*score, 'f', -1, 64)
}

// formatExtractRun renders the extracted data as indented JSON.
func formatExtractRun(run *llamacloud.ExtractRun) (string, error) {
	if run == nil || run.Data == nil {
		return noResults, nil
	}
	out, err := json.MarshalIndent(run.Data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode extracted data: %w", err)
	}
	return string(out), nil
}
