package bootstrap

import (
	"fmt"
	"io"
	"strings"

	"github.com/mcpjungle/llamacloud-mcp/internal/descriptor"
	"github.com/mcpjungle/llamacloud-mcp/pkg/types"
)

const (
	// DefaultTransport is the transport used by deployments configured through the environment.
	DefaultTransport = types.TransportStreamableHTTP
	// DefaultPort is the port used by network transports when none is configured.
	DefaultPort = "8000"
	// DefaultIndexDescription describes the index configured through INDEX_NAME when INDEX_DESCRIPTION is unset.
	DefaultIndexDescription = "Search index"
)

// Settings is the server configuration read from the environment of a hosted deployment.
type Settings struct {
	APIKey         string
	OrganizationID string
	ProjectName    string
	Transport      string
	Port           string

	// Indexes and ExtractAgents hold raw descriptors, in the order they were found.
	Indexes       []string
	ExtractAgents []string
}

// LoadSettings reads the deployment configuration from the environment.
// The API key and the organization id are mandatory.
func LoadSettings(e *Env) (*Settings, error) {
	apiKey, err := e.GetOrFile(APIKeyEnvVar)
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		return nil, descriptor.NewConfigurationError("%s environment variable is required", APIKeyEnvVar)
	}

	orgID := e.Get(OrgIDEnvVar)
	if orgID == "" {
		return nil, descriptor.NewConfigurationError("%s environment variable is required", OrgIDEnvVar)
	}

	s := &Settings{
		APIKey:         apiKey,
		OrganizationID: orgID,
		ProjectName:    e.Get(ProjectNameEnvVar),
		Transport:      e.GetOrDefault(TransportEnvVar, string(DefaultTransport)),
		Port:           e.GetOrDefault(PortEnvVar, DefaultPort),
		Indexes:        e.Numbered(IndexEnvVarPrefix),
		ExtractAgents:  e.Numbered(ExtractAgentEnvVarPrefix),
	}

	// the single index variables are only a fallback for deployments that predate numbered indexes
	if len(s.Indexes) == 0 {
		if name := e.Get(IndexNameEnvVar); name != "" {
			desc := e.GetOrDefault(IndexDescriptionEnvVar, DefaultIndexDescription)
			s.Indexes = []string{name + ":" + desc}
		}
	}

	return s, nil
}

// Args translates the settings into the equivalent server command line.
func (s *Settings) Args() []string {
	var args []string
	for _, idx := range s.Indexes {
		args = append(args, "--index", idx)
	}
	for _, agent := range s.ExtractAgents {
		args = append(args, "--extract-agent", agent)
	}
	if s.ProjectName != "" {
		args = append(args, "--project-name", s.ProjectName)
	}
	args = append(args,
		"--org-id", s.OrganizationID,
		"--transport", s.Transport,
		"--port", s.Port,
		"--api-key", s.APIKey,
	)
	return args
}

// descriptorNames returns the tool names of raw descriptors, leaving out descriptions and credentials.
func descriptorNames(raws []string) []string {
	names := make([]string, 0, len(raws))
	for _, raw := range raws {
		name, _, _ := strings.Cut(raw, ":")
		names = append(names, name)
	}
	return names
}

// PrintSummary writes a human-readable startup summary. Credentials are never printed.
func (s *Settings) PrintSummary(w io.Writer) {
	fmt.Fprintf(w, "Starting LlamaCloud MCP Server on port %s...\n", s.Port)
	fmt.Fprintf(w, "Transport: %s\n", s.Transport)
	fmt.Fprintf(w, "Indexes: %s\n", strings.Join(descriptorNames(s.Indexes), ", "))
	if len(s.ExtractAgents) > 0 {
		fmt.Fprintf(w, "Extract agents: %s\n", strings.Join(descriptorNames(s.ExtractAgents), ", "))
	}
	fmt.Fprintf(w, "Organization ID: %s\n", s.OrganizationID)
	fmt.Fprintf(w, "Project: %s\n", s.ProjectName)
}
