// Package cmd implements the llamacloud-mcp command line.
package cmd

import (
	"github.com/joho/godotenv"
	"github.com/mcpjungle/llamacloud-mcp/internal/descriptor"
	"github.com/spf13/cobra"
)

type subCommandGroup string

const (
	subCommandGroupBasic    subCommandGroup = "basic"
	subCommandGroupAdvanced subCommandGroup = "advanced"
)

var rootCmd = &cobra.Command{
	Use:   "llamacloud-mcp",
	Short: "MCP server for LlamaCloud indexes and extraction agents",
	Long: "Exposes LlamaCloud retrieval indexes and LlamaExtract agents as MCP tools.\n\n" +
		"Every --index registers a tool named query_<name> and every --extract-agent registers a tool\n" +
		"named extract_<name>. Both flags take a descriptor in the format " + descriptor.Format + ".\n" +
		"Credentials omitted from a descriptor fall back to --api-key, --org-id and --project-name.\n\n" +
		"By default, the server talks to its MCP client over stdio.\n" +
		"Use --transport sse or --transport streamable-http to serve MCP over HTTP instead.\n",
	Example: "  llamacloud-mcp --index 'docs:Search my docs' --api-key $LLAMA_CLOUD_API_KEY\n" +
		"  llamacloud-mcp --index 'docs:Search my docs' --extract-agent 'invoices:Extract invoice fields' \\\n" +
		"      --org-id $ORG_ID --transport streamable-http --port 8000",
	Args: cobra.NoArgs,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// a missing .env file is not an error
		_ = godotenv.Load()
		return nil
	},
	RunE: runServer,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: string(subCommandGroupBasic), Title: "Basic Commands:"},
		&cobra.Group{ID: string(subCommandGroupAdvanced), Title: "Advanced Commands:"},
	)
	rootCmd.SetHelpCommandGroupID(string(subCommandGroupAdvanced))
	rootCmd.SetCompletionCommandGroupID(string(subCommandGroupAdvanced))

	registerToolFlags(rootCmd)
	registerServerFlags(rootCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
