package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ngs/google-mcp-client/pkg/client"
	"github.com/ngs/google-mcp-client/pkg/config"
	mcperrors "github.com/ngs/google-mcp-client/pkg/errors"
	"github.com/ngs/google-mcp-client/pkg/logging"
	"github.com/ngs/google-mcp-client/pkg/observability"
	"github.com/ngs/google-mcp-client/pkg/transport"
)

var (
	flagConfig  string
	flagServer  string
	flagAccount string
	flagLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "mcpdrive",
	Short: "Drives a Google MCP server over stdio",
	Long: `mcpdrive launches a Google MCP server as a child process, performs the
initialize handshake, and runs scripted tool sequences against it.

Every command exits 0 when all steps succeed and 1 when any step fails,
printing which step failed.`,
	SilenceUsage: true,
}

var version = "dev"

// Execute runs the root command. Any failed step surfaces as a non-nil
// RunE error and a process exit code of 1.
func Execute() {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(`{{printf "mcpdrive version %s\n" .Version}}`)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "server command to launch (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagAccount, "account", "", "Google account to address (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(newToolsCmd())
	rootCmd.AddCommand(newCreateDocCmd())
	rootCmd.AddCommand(newAccountsCmd())
}

// loadConfig merges the config file with the command-line overrides.
func loadConfig() (*config.Config, error) {
	path, err := config.Find(flagConfig)
	if err != nil {
		return nil, err
	}

	cfg := config.Default()
	if path != "" {
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}
	if flagServer != "" {
		cfg.Server.Command = flagServer
	}
	if flagAccount != "" {
		cfg.Account = flagAccount
	}
	if flagLevel != "" {
		cfg.Logging.Level = flagLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildLogger(cfg *config.Config) logging.Logger {
	var formatter logging.Formatter
	if cfg.Logging.Format == "json" {
		formatter = logging.NewJSONFormatter()
	} else {
		formatter = logging.NewTextFormatter()
	}
	logger := logging.New(os.Stderr, formatter)
	logger.SetLevel(logging.ParseLevel(cfg.Logging.Level))
	return logger
}

// withSession runs fn against an initialized session and always tears
// the child process down afterwards.
func withSession(fn func(ctx context.Context, s *client.Session, cfg *config.Config) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		logger := buildLogger(cfg)

		options := []client.Option{
			client.WithLogger(logger),
			client.WithClientInfo(cfg.Client.Name, version),
		}

		var metrics *observability.Metrics
		if cfg.Metrics.Enabled {
			metrics, err = observability.NewMetrics(observability.MetricsConfig{})
			if err != nil {
				return fmt.Errorf("metrics: %w", err)
			}
			go func() {
				if err := http.ListenAndServe(cfg.Metrics.Listen, metrics.Handler()); err != nil {
					logger.WithError(err).Warn("metrics endpoint stopped")
				}
			}()
		}

		recordFailure := func(err error) {
			if metrics == nil || err == nil {
				return
			}
			category := mcperrors.CategoryInternal
			if cerr, ok := mcperrors.AsClientError(err); ok {
				category = cerr.Category()
			}
			metrics.RecordFailure(string(category))
		}

		if cfg.Tracing.Enabled || metrics != nil {
			exporter := observability.ExporterTypeNoop
			if cfg.Tracing.Enabled {
				exporter = observability.ExporterType(cfg.Tracing.Exporter)
			}
			provider, err := observability.NewTracingProvider(observability.TracingConfig{
				ServiceName:    "mcpdrive",
				ServiceVersion: version,
				ExporterType:   exporter,
				Endpoint:       cfg.Tracing.Endpoint,
				Insecure:       cfg.Tracing.Insecure,
				SampleRate:     cfg.Tracing.SampleRate,
			})
			if err != nil {
				return fmt.Errorf("tracing: %w", err)
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := provider.Shutdown(shutdownCtx); err != nil {
					logger.WithError(err).Warn("trace export incomplete")
				}
			}()
			options = append(options,
				client.WithInstrumentation(observability.NewInstrumentation(metrics, provider.Tracer())))
		}

		session := client.NewCommand(transport.Config{
			Command:     cfg.Server.Command,
			Args:        cfg.Server.Args,
			Dir:         cfg.Server.Dir,
			Env:         cfg.Server.Env,
			ReadTimeout: cfg.ReadTimeout(),
			Logger:      logger,
		}, options...)

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		if err := session.Start(ctx); err != nil {
			if metrics != nil {
				metrics.RecordLaunch("error")
			}
			recordFailure(err)
			return fmt.Errorf("launch: %w", err)
		}
		if metrics != nil {
			metrics.RecordLaunch("ok")
		}
		defer session.Close(cfg.ShutdownGrace())

		if _, err := session.Initialize(ctx); err != nil {
			recordFailure(err)
			return fmt.Errorf("initialize: %w", err)
		}
		if err := fn(ctx, session, cfg); err != nil {
			recordFailure(err)
			return err
		}
		return nil
	}
}
