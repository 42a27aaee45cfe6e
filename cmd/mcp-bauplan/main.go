// Package main provides the entry point for the mcp-bauplan server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/bauplanlabs/mcp-bauplan/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(server.Version)); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	transport string
	host      string
	port      int
	profile   string
}

func newRootCmd() *cobra.Command {
	opts := rootOptions{}

	cmd := &cobra.Command{
		Use:   "mcp-bauplan",
		Short: "MCP server for the Bauplan data lakehouse",
		Long: `mcp-bauplan exposes Bauplan data lakehouse operations as MCP tools:
data catalog browsing, branch and tag management, read-only SQL queries,
pipeline runs, and job tracking.

Credentials resolve per call: a 'Bauplan' request header wins over the
--profile flag, which wins over the default profile in ~/.bauplan/config.yml.
Destructive operations against the main branch are always rejected.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.transport, "transport", server.TransportStdio,
		"transport: stdio, sse, or streamable-http")
	cmd.Flags().StringVar(&opts.host, "host", "0.0.0.0", "bind address for HTTP transports")
	cmd.Flags().IntVar(&opts.port, "port", 8000, "bind port for HTTP transports")
	cmd.Flags().StringVar(&opts.profile, "profile", "", "named profile from the Bauplan config file")

	return cmd
}

func run(ctx context.Context, opts rootOptions) error {
	// stdio owns stdout for the protocol; logs must go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	srv, err := server.New(server.Options{
		Profile: opts.profile,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("assembling server: %w", err)
	}
	defer srv.Close()

	addr := fmt.Sprintf("%s:%d", opts.host, opts.port)
	return srv.Serve(ctx, opts.transport, addr)
}
