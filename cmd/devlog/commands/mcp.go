package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/devlog/pkg/mcp"
	"github.com/Sumatoshi-tech/devlog/pkg/observability"
)

func newMCPCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The server exposes the daily log as read-only tools:
  - devlog_entries: list entries, optionally for one month
  - devlog_month_stats: aggregate one month without writing

Logs are written to stderr as JSON; stdout carries protocol traffic only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.run(cmd, "mcp", observability.ModeMCP, func(ctx context.Context, env *runEnv) error {
				srv, err := mcp.NewServer(mcp.ServerDeps{
					Log:     env.vault,
					Policy:  env.cfg.UniquePolicy(),
					Logger:  env.logger,
					Metrics: env.metrics,
					Tracer:  env.tracer,
				})
				if err != nil {
					return err
				}

				env.logger.InfoContext(ctx, "mcp server starting", "tools", srv.ListToolNames())

				return srv.Run(ctx)
			})
		},
	}
}
