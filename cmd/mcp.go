package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Ponnammaah123/test-agent/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the testagent MCP server",
	Long:  `Launch an MCP server that allows AI agents to analyze codebases and query cached content via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Logs already go to stderr, so the stdio protocol on stdout
		// stays clean during setup.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, analyzer)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
