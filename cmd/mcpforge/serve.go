package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/mcpforge/internal/app"
	"github.com/bobmcallan/mcpforge/internal/config"
	"github.com/bobmcallan/mcpforge/internal/server"
)

func newServeCommand(c *cli) *cobra.Command {
	var (
		httpAPI   bool
		port      int
		host      string
		transport string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generator over MCP, or the HTTP API with --http",
		Long: "Without --http, serves the mcpforge MCP tools over the configured transport\n" +
			"(stdio or streamable HTTP). With --http, serves the REST API with /mcp mounted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := config.FlagOverrides{Host: host, Transport: transport}
			if httpAPI {
				flags.Port = port
			}
			if err := c.load(flags); err != nil {
				return err
			}
			if !httpAPI && port > 0 {
				c.cfg.MCP.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.New(c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer application.Close()

			if httpAPI {
				return server.New(application).Run(ctx)
			}
			if c.cfg.MCP.Transport == config.TransportHTTP {
				return application.MCPHandler.Start(ctx, c.cfg.MCPAddress())
			}
			return application.MCPHandler.ServeStdio()
		},
	}
	cmd.Flags().BoolVar(&httpAPI, "http", false, "serve the HTTP API instead of MCP only")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")
	cmd.Flags().StringVar(&host, "host", "", "listen host for the HTTP API (overrides config)")
	cmd.Flags().StringVar(&transport, "transport", "", "MCP transport (stdio, http)")
	return cmd
}
