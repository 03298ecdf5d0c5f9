package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonyos/toolrunner/internal/config"
	"github.com/simonyos/toolrunner/internal/mcp"
	"github.com/simonyos/toolrunner/internal/server"
	"github.com/simonyos/toolrunner/internal/tools"
)

var mcpAddrFlag string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol commands",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the arithmetic tools over MCP and HTTP",
	Long: `Serves add, sub, mul and div over MCP streamable HTTP at /mcp, plus a
small JSON API:

  GET  /health
  GET  /api/v1/tools
  POST /api/v1/tools/{name}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		reg, err := tools.RegistryOf(tools.MathTools()...)
		if err != nil {
			return err
		}

		addr := firstNonEmpty(mcpAddrFlag, config.Get().MCPAddr, config.DefaultMCPAddr)
		srv := server.New(addr, reg, mcp.DefaultPath, mcp.Handler(mcp.NewServer(reg, mcp.ServerName, mcp.ServerVersion)))

		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on %s%s\n", addr, mcp.DefaultPath)
		return srv.Run(cmd.Context())
	},
}

func init() {
	mcpServeCmd.Flags().StringVar(&mcpAddrFlag, "addr", "", "Listen address (default from config mcp_addr)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
