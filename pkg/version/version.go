// Package version exposes the build version of llamacloud-mcp.
package version

// Version is overridden at build time with
// -ldflags "-X github.com/mcpjungle/llamacloud-mcp/pkg/version.Version=v1.2.3"
var Version = "dev"

// GetVersion returns the version of the running binary.
func GetVersion() string {
	return Version
}
