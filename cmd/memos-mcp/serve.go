// ABOUTME: Serve command running the MCP server on stdio.
// ABOUTME: Optionally exposes Prometheus metrics on a side listener.

package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/memos-mcp/internal/mcp"
	"github.com/harper/memos-mcp/internal/telemetry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP server",
	Long:  `Start the Model Context Protocol server on stdio for AI agent integration. This is also what runs when no subcommand is given.`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	allow, err := mcp.ResolveTools(settings.Tools)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if settings.MetricsAddr != "" {
		go func() {
			if err := telemetry.ServeMetrics(ctx, settings.MetricsAddr, registry, logger.Named("metrics")); err != nil {
				logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	logger.Info("starting memos-mcp",
		zap.String("version", version),
		zap.String("api_url", settings.APIURL()),
		zap.Duration("timeout", settings.Timeout),
	)

	server := mcp.NewServer(client,
		mcp.WithLogger(logger.Named("mcp")),
		mcp.WithMetrics(metrics),
		mcp.WithTools(allow),
		mcp.WithVersion(version),
	)
	err = server.Serve(ctx)
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		logger.Info("memos-mcp stopped")
		return nil
	}
	return err
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
