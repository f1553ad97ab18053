package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/mj1618/novawin-cli/internal/observability"
	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/mj1618/novawin-cli/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing the automation tools",
	Long: `Start a Model Context Protocol server that exposes the commands as tools.
The server opens one driver session on the first tool call, shares it
across calls and deletes it on shutdown.

Supported transports:
  stdio             Standard I/O (default)
  streamable-http   Streamable HTTP on --addr`,
	Example: `  novawin serve
  novawin serve --transport streamable-http --addr :8080
  novawin serve --cache-ttl 0`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().String("addr", ":8080", "Listen address for streamable-http")
	serveCmd.Flags().Duration("cache-ttl", 500*time.Millisecond, "Page-source cache TTL (0 to disable)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := server.Config{}
	cfg.Transport, _ = cmd.Flags().GetString("transport")
	cfg.Addr, _ = cmd.Flags().GetString("addr")
	cfg.CacheTTL, _ = cmd.Flags().GetDuration("cache-ttl")
	if cfg.Transport != "stdio" && cfg.Transport != "streamable-http" {
		return fmt.Errorf("unsupported transport %q (expected stdio or streamable-http)", cfg.Transport)
	}

	appCfg := currentConfig()
	open := func(ctx context.Context) (*platform.Provider, error) {
		return platform.NewProvider(ctx, appCfg)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	srv := server.New(cfg, open, observability.GetLogger().Named("mcp"))
	return srv.Serve(ctx)
}
