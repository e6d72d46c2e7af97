package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/AndreyBuyanov/ExpertSystem/internal/cli"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/adapters/mcp"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/observability"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp [system]",
	Short: "Serve consultations as Model Context Protocol tools",
	Long: `Exposes start_session, answer and the other session tools to MCP clients.
Uses stdio unless --sse is given. Logs always go to stderr.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		systemArg(args)
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		svc, err := cli.NewService(ctx, cfg, logger, observability.LogHooks(logger))
		if err != nil {
			return err
		}
		defer closeService(svc)

		srv := mcp.NewServer(svc.Manager, mcp.WithLogger(logger), mcp.WithTree(svc.Tree))
		if addr, _ := cmd.Flags().GetString("sse"); addr != "" {
			baseURL, _ := cmd.Flags().GetString("base-url")
			if baseURL == "" {
				baseURL = "http://localhost" + addr
			}
			return srv.ServeSSE(ctx, addr, baseURL)
		}
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("sse", "", "serve over SSE on this address (e.g. :8081) instead of stdio")
	mcpCmd.Flags().String("base-url", "", "public base URL of the SSE server")
}
