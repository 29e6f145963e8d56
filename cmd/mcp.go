package cmd

import (
	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/iocache"
	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the airank MCP server",
	Long:  `Launch an MCP server that allows AI agents to query the leaderboard, hidden gems and similarity search via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Suppress the normal header logs when running in MCP mode
		// to avoid polluting stdio which is used for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, iocache.Manager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
