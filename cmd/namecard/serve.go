package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/namecardai/namecard"
	"github.com/namecardai/namecard/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the website",
	Long: `Starts the NameCardAI site: server-rendered pages, the JSON API under /api,
per-session event streams and, unless disabled, Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Addr, _ = cmd.Flags().GetString("addr")
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat, _ = cmd.Flags().GetString("log-format")
		}
		if cmd.Flags().Changed("backend") {
			cfg.Accounts.Backend, _ = cmd.Flags().GetString("backend")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		noMetrics, _ := cmd.Flags().GetBool("no-metrics")
		quiet, _ := cmd.Flags().GetBool("quiet")

		logger, err := newLogger(os.Stderr, cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		src, err := contentSource(cfg)
		if err != nil {
			return fmt.Errorf("failed to open content: %w", err)
		}
		b, err := openBackends(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := b.close(); err != nil {
				logger.Warn("Backend close failed", "error", err)
			}
		}()

		app, err := namecard.New(ctx,
			namecard.WithLogger(logger),
			namecard.WithContentSource(src),
			namecard.WithAccounts(b.accounts),
			namecard.WithWaitlist(b.waitlist),
			namecard.WithSessionTTL(cfg.SessionTTL),
			namecard.WithTimings(cfg.AdvanceDelay, cfg.AutoplayInterval, cfg.SubmitTimeout),
			namecard.WithRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
			namecard.WithMetrics(!noMetrics),
		)
		if err != nil {
			return fmt.Errorf("error initializing site: %w", err)
		}

		if !quiet {
			tui.PrintBanner(os.Stdout)
			fmt.Printf("Serving on %s\n", cfg.Addr)
			if cfg.ContentDir != "" {
				fmt.Printf("Serving content from: %s\n", cfg.ContentDir)
			}
		}
		return app.Run(ctx, cfg.Addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on")
	serveCmd.Flags().String("log-format", "text", "Log format: text or json")
	serveCmd.Flags().String("backend", "memory", "Account backend: memory, redis or webhook")
	serveCmd.Flags().Bool("no-metrics", false, "Disable the /metrics endpoint")
	serveCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
}
