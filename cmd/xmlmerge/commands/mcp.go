package commands

import (
	"github.com/erraggy/xmlmerge/internal/mcpserver"
	"github.com/erraggy/xmlmerge/merger"
	"github.com/spf13/cobra"
)

func newMCPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server on stdio",
		Long: `Start the Model Context Protocol server over stdio. It exposes the merge
and keys tools to MCP clients.

Client configuration:
  {
    "mcpServers": {
      "xmlmerge": {
        "command": "/path/to/xmlmerge",
        "args": ["mcp"]
      }
    }
  }

Defaults can be set with XMLMERGE_PROPERTIES, XMLMERGE_STRATEGY and
XMLMERGE_ORDER.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// stdout carries the protocol; diagnostics go to stderr.
			merger.SetLogger(newLogger(cmd.ErrOrStderr(), false, false))
			return mcpserver.Run(cmd.Context())
		},
	}
}
