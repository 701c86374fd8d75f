package cmd

import (
	"github.com/huangsam/deeptime/internal/eventstore"
	"github.com/huangsam/deeptime/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the DeepTime MCP server",
	Long:  `Launch an MCP server on stdio that lets AI agents convert times, map pixels, generate ticks and place events.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Headers are suppressed inside the tools so stdio stays clean for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, eventstore.Manager.GetEventStore())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
