package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/namecardai/namecard"
	"github.com/namecardai/namecard/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the demo, the sign-up wizard and the pitch deck as MCP tools, so
agents can walk through the site the way a visitor would.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		// Ensure logs don't corrupt JSON-RPC on Stdout
		log.SetOutput(os.Stderr)
		logger, err := newLogger(os.Stderr, cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		src, err := contentSource(cfg)
		if err != nil {
			return err
		}
		b, err := openBackends(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() { _ = b.close() }()

		app, err := namecard.New(ctx,
			namecard.WithLogger(logger),
			namecard.WithContentSource(src),
			namecard.WithAccounts(b.accounts),
			namecard.WithWaitlist(b.waitlist),
			namecard.WithSessionTTL(cfg.SessionTTL),
			namecard.WithTimings(cfg.AdvanceDelay, cfg.AutoplayInterval, cfg.SubmitTimeout),
		)
		if err != nil {
			return fmt.Errorf("error initializing site: %w", err)
		}
		defer app.Close()
		go app.Sessions.Run(ctx)

		srv := mcp.NewServer(app.Sessions, namecard.Version, mcp.WithLogger(logger))

		switch transport {
		case "stdio":
			logger.Info("Starting NameCardAI MCP Server (Stdio)...")
			return srv.ServeStdio()
		case "sse":
			logger.Info("Starting NameCardAI MCP Server (SSE)", "port", port)
			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("MCP server execution failed: %w", err)
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
