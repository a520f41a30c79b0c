package cmd

import (
	"fmt"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/mcpjungle/llamacloud-mcp/internal/bootstrap"
	"github.com/spf13/cobra"
)

var fromEnvCmd = &cobra.Command{
	Use:   "from-env",
	Short: "Start the server configured from environment variables",
	Long: "Starts the MCP server using only environment variables, as done by hosted deployments.\n\n" +
		"Required:\n" +
		"  " + bootstrap.APIKeyEnvVar + " (or " + bootstrap.APIKeyEnvVar + "_FILE)\n" +
		"  " + bootstrap.OrgIDEnvVar + "\n\n" +
		"Optional:\n" +
		"  " + bootstrap.ProjectNameEnvVar + "\n" +
		"  " + bootstrap.TransportEnvVar + " (default " + string(bootstrap.DefaultTransport) + ")\n" +
		"  " + bootstrap.PortEnvVar + " (default " + bootstrap.DefaultPort + ")\n" +
		"  " + bootstrap.IndexEnvVarPrefix + "1, " + bootstrap.IndexEnvVarPrefix + "2, ... full index descriptors\n" +
		"  " + bootstrap.ExtractAgentEnvVarPrefix + "1, " + bootstrap.ExtractAgentEnvVarPrefix + "2, ... full extraction agent descriptors\n" +
		"  " + bootstrap.IndexNameEnvVar + " and " + bootstrap.IndexDescriptionEnvVar +
		" (default '" + bootstrap.DefaultIndexDescription + "'), used only when no " + bootstrap.IndexEnvVarPrefix + "<n> is set\n\n" +
		"Numbered variables are read in order until the first missing one.",
	Args: cobra.NoArgs,
	RunE: runFromEnv,
	Annotations: map[string]string{
		"group": string(subCommandGroupBasic),
		"order": "2",
	},
	GroupID: string(subCommandGroupBasic),
}

var fromEnvCmdPrintArgs bool

func init() {
	fromEnvCmd.Flags().BoolVar(
		&fromEnvCmdPrintArgs,
		"print-args",
		false,
		"print the equivalent command line (with the API key redacted) instead of starting the server",
	)
	rootCmd.AddCommand(fromEnvCmd)
}

func runFromEnv(cmd *cobra.Command, args []string) error {
	settings, err := bootstrap.LoadSettings(bootstrap.OSEnv())
	if err != nil {
		return err
	}

	serverArgs := settings.Args()
	if fromEnvCmdPrintArgs {
		cmd.Println(shellescape.QuoteCommand(redactArgs(serverArgs)))
		return nil
	}

	settings.PrintSummary(cmd.ErrOrStderr())

	root := cmd.Root()
	if err := root.ParseFlags(serverArgs); err != nil {
		return fmt.Errorf("failed to apply environment configuration: %w", err)
	}
	return runServer(root, nil)
}

const redactedValue = "<redacted>"

// redactArgs returns a copy of args in which the value of --api-key
// and the api_key field of every --index and --extract-agent descriptor are hidden.
func redactArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i < len(out)-1; i++ {
		switch out[i] {
		case "--api-key":
			out[i+1] = redactedValue
		case "--index", "--extract-agent":
			out[i+1] = redactDescriptor(out[i+1])
		}
	}
	return out
}

// redactDescriptor hides the api_key field (the third one) of a descriptor, if present.
func redactDescriptor(raw string) string {
	fields := strings.Split(raw, ":")
	if len(fields) < 3 || fields[2] == "" {
		return raw
	}
	fields[2] = redactedValue
	return strings.Join(fields, ":")
}
