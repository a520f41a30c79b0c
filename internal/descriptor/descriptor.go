// Package descriptor parses the colon-delimited tool descriptors supplied on the command line
// into immutable records that the tool factory turns into MCP tools.
package descriptor

import (
	"fmt"
	"strings"

	"github.com/mcpjungle/llamacloud-mcp/pkg/types"
)

const (
	fieldSep = ":"

	// Format is the descriptor format shown to users in configuration errors.
	Format = "name:description[:api_key:org_id:project_name]"
)

// Kind is the type of remote service a descriptor points at.
type Kind = types.ToolKind

const (
	KindIndex        = types.ToolKindIndex
	KindExtractAgent = types.ToolKindExtractAgent
)

// Defaults holds the process-wide credentials used when a descriptor omits them.
type Defaults struct {
	APIKey         string
	OrganizationID string
	ProjectName    string
}

// ToolDescriptor is the resolved configuration of a single tool.
// It is built once at startup and never mutated afterwards.
type ToolDescriptor struct {
	Kind        Kind
	Name        string
	Description string

	// Credentials, each either the explicit per-descriptor value or the process default.
	// An empty value means absent and is passed through to the remote service as such.
	APIKey         string
	OrganizationID string
	ProjectName    string

	// Extra holds any fields found after the fifth one. They are not used.
	Extra []string
}

// ToolName returns the name under which the descriptor is exposed to MCP clients.
func (d ToolDescriptor) ToolName() string {
	if d.Kind == KindExtractAgent {
		return "extract_" + d.Name
	}
	return "query_" + d.Name
}

// Parse turns a single raw descriptor string into a ToolDescriptor.
// Fields 2, 3 and 4 are optional and fall back to the supplied defaults.
func Parse(kind Kind, raw string, defaults Defaults) (ToolDescriptor, error) {
	parts := strings.Split(raw, fieldSep)
	if len(parts) < 2 {
		return ToolDescriptor{}, &ConfigurationError{
			Value:   raw,
			Message: fmt.Sprintf("%s '%s' must be in the format %s", kindLabel(kind), raw, Format),
		}
	}

	d := ToolDescriptor{
		Kind:           kind,
		Name:           parts[0],
		Description:    parts[1],
		APIKey:         defaults.APIKey,
		OrganizationID: defaults.OrganizationID,
		ProjectName:    defaults.ProjectName,
	}
	if len(parts) > 2 {
		d.APIKey = parts[2]
	}
	if len(parts) > 3 {
		d.OrganizationID = parts[3]
	}
	if len(parts) > 4 {
		d.ProjectName = parts[4]
	}
	if len(parts) > 5 {
		d.Extra = parts[5:]
	}
	return d, nil
}

// ParseAll parses every raw string in order and stops at the first malformed one.
func ParseAll(kind Kind, raws []string, defaults Defaults) ([]ToolDescriptor, error) {
	out := make([]ToolDescriptor, 0, len(raws))
	for _, raw := range raws {
		d, err := Parse(kind, raw, defaults)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func kindLabel(kind Kind) string {
	if kind == KindExtractAgent {
		return "Extract agent"
	}
	return "Index"
}
