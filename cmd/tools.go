package cmd

import (
	"encoding/json"
	"strings"

	"github.com/mcpjungle/llamacloud-mcp/internal/bootstrap"
	"github.com/mcpjungle/llamacloud-mcp/internal/service/mcp"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the MCP tools the server would register",
	Long: "Resolves --index, --extract-agent and --config exactly like the server does and prints every tool\n" +
		"that would be registered, without starting the server or contacting LlamaCloud.",
	Args: cobra.NoArgs,
	RunE: runListTools,
	Annotations: map[string]string{
		"group": string(subCommandGroupBasic),
		"order": "3",
	},
	GroupID: string(subCommandGroupBasic),
}

var toolsCmdJSON bool

func init() {
	toolsCmd.Flags().BoolVar(&toolsCmdJSON, "json", false, "print the tools as JSON")
	rootCmd.AddCommand(toolsCmd)
}

func runListTools(cmd *cobra.Command, args []string) error {
	tc, err := resolveToolsConfig(bootstrap.OSEnv(), afero.NewOsFs(), zap.NewNop())
	if err != nil {
		return err
	}

	if len(tc.descriptors) == 0 {
		cmd.Println("No tools configured. Use --index, --extract-agent or --config to add some.")
		return nil
	}

	if toolsCmdJSON {
		type toolInfo struct {
			Name        string `json:"name"`
			Kind        string `json:"kind"`
			Description string `json:"description"`
			Argument    string `json:"argument"`
			Project     string `json:"project,omitempty"`
		}
		out := make([]toolInfo, 0, len(tc.descriptors))
		for _, d := range tc.descriptors {
			out = append(out, toolInfo{
				Name:        d.ToolName(),
				Kind:        string(d.Kind),
				Description: d.Description,
				Argument:    mcp.ArgumentName(d.Kind),
				Project:     d.ProjectName,
			})
		}
		j, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(j))
		return nil
	}

	for i, d := range tc.descriptors {
		boundary := strings.Repeat("=", len(d.ToolName())+20)
		if i > 0 {
			cmd.Println()
		}
		cmd.Println(boundary)
		cmd.Println(d.ToolName())
		cmd.Println(boundary)
		cmd.Printf("Kind:        %s\n", d.Kind)
		cmd.Printf("Description: %s\n", d.Description)
		cmd.Printf("Argument:    %s (required)\n", mcp.ArgumentName(d.Kind))
		if d.ProjectName != "" {
			cmd.Printf("Project:     %s\n", d.ProjectName)
		}
		if d.OrganizationID != "" {
			cmd.Printf("Org ID:      %s\n", d.OrganizationID)
		}
	}
	return nil
}
