package cmd

import (
	"github.com/huangsam/mri/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MRI MCP server",
	Long:  `Launch an MCP server that allows AI agents to score assessments and read site history via standard tools.`,
	Args:  cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, args []string) error {
		return sharedSetup(rootCtx, args, true)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
