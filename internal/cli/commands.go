package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dyike/QuantFlow/config"
	"github.com/dyike/QuantFlow/internal/api"
	"github.com/dyike/QuantFlow/internal/display"
)

const version = "v1.0.0"

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	// Initialize configuration early
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "quantflow",
		Short: "QuantFlow - Algorithmic Trading Dashboard",
		Long: `QuantFlow is a mock trading control panel: manage algorithm bots, tune their
strategy parameters, watch the broker session and the live execution log, and read
AI-generated market commentary.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				cfg.Debug = true
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default behavior: start interactive mode
			return runInteractiveMode(cmd.Context(), cfg, os.Stdin, os.Stdout)
		},
	}

	// Add subcommands
	rootCmd.AddCommand(newServeCmd(cfg))
	rootCmd.AddCommand(newInsightCmd(cfg))
	rootCmd.AddCommand(newAdviseCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(cfg))

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")

	return rootCmd
}

// newServeCmd creates the serve command
func newServeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		Long: `Serve the dashboard REST API, the live log websocket and Prometheus metrics.
Example: quantflow serve --addr=:3001`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.HTTPAddr = addr
			}
			if einoDebug, _ := cmd.Flags().GetBool("eino-debug"); einoDebug {
				cfg.EinoDebugEnabled = true
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (overrides QUANTFLOW_HTTP_ADDR)")
	cmd.Flags().Bool("eino-debug", false, "Start the eino visual debug server")

	return cmd
}

func runServe(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg)
	if err != nil {
		return err
	}

	srv := api.NewServer(app.Dashboard, app.Recorder, api.Options{
		Addr:            cfg.HTTPAddr,
		CORSAllowOrigin: cfg.CORSAllowOrigin,
		RateLimitRPS:    cfg.RateLimitRPS,
		RateLimitBurst:  cfg.RateLimitBurst,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()
	go app.Start(ctx)

	// Wait for shutdown signal
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown error")
	}
	log.Info("Shutdown complete")
	return nil
}

// newInsightCmd creates the insight command
func newInsightCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "insight",
		Short: "Request a one-off AI market insight",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			text := app.Dashboard.RefreshInsight(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), display.Insight(text, false))
			return nil
		},
	}
}

// newAdviseCmd creates the advise command
func newAdviseCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "advise [ALGORITHM_ID]",
		Short: "Ask the AI advisor about one algorithm",
		Long: `Ask for one concrete improvement for a trading algorithm.
Example: quantflow advise 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			alg, err := app.Dashboard.Algorithm(args[0])
			if err != nil {
				return err
			}
			text, err := app.Dashboard.StrategyAdvice(cmd.Context(), alg.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", alg.Name, text)
			return nil
		},
	}
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "QuantFlow %s (engine %s)\n", version, config.EngineVersion)
			fmt.Fprintln(cmd.OutOrStdout(), "Algorithmic Trading Dashboard")
		},
	}
}

// newConfigCmd creates the config command
func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "Inspect QuantFlow configuration settings",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cmd.OutOrStdout(), cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration OK")
			return nil
		},
	})

	return configCmd
}

// showConfig displays the current configuration
func showConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current QuantFlow Configuration:")
	fmt.Fprintln(w, "═══════════════════════════════════════")
	fmt.Fprintf(w, "LLM Provider:         %s\n", cfg.LLMProvider)
	fmt.Fprintf(w, "LLM Model:            %s\n", cfg.LLMModel)
	fmt.Fprintf(w, "LLM Base URL:         %s\n", cfg.LLMBaseURL)
	if cfg.HasCredential() {
		fmt.Fprintln(w, "API Key:              configured")
	} else {
		fmt.Fprintln(w, "API Key:              placeholder (fallback text only)")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "HTTP Address:         %s\n", cfg.HTTPAddr)
	fmt.Fprintf(w, "CORS Origin:          %s\n", cfg.CORSAllowOrigin)
	fmt.Fprintf(w, "Rate Limit:           %g rps (burst %d)\n", cfg.RateLimitRPS, cfg.RateLimitBurst)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Broker Connect Delay: %s\n", cfg.BrokerConnectDelay)
	fmt.Fprintf(w, "Seed File:            %s\n", orNone(cfg.SeedFile))
	if cfg.WebhookURL != "" {
		fmt.Fprintln(w, "Webhook:              configured")
	} else {
		fmt.Fprintln(w, "Webhook:              (none)")
	}
	fmt.Fprintf(w, "Global Stop Loss:     %g%%\n", cfg.GlobalStopLoss)
	fmt.Fprintf(w, "Max Daily Trades:     %d\n", cfg.MaxDailyTrades)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Log Level:            %s\n", cfg.LogLevel)
	fmt.Fprintf(w, "Debug Mode:           %t\n", cfg.Debug)
	fmt.Fprintf(w, "Eino Debug:           %t\n", cfg.EinoDebugEnabled)
	if cfg.EinoDebugEnabled {
		fmt.Fprintf(w, "Eino Debug Port:      %d\n", cfg.EinoDebugPort)
	}
}

func orNone(v string) string {
	if v == "" {
		return "(none)"
	}
	return v
}
