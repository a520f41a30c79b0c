package cmd

import (
	"github.com/mcpjungle/llamacloud-mcp/pkg/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of llamacloud-mcp",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.GetVersion())
	},
	Annotations: map[string]string{
		"group": string(subCommandGroupAdvanced),
		"order": "1",
	},
	GroupID: string(subCommandGroupAdvanced),
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
