package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/fulmenhq/gofulmen/signals"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/alertgate/alertgate/internal/config"
	"github.com/alertgate/alertgate/internal/core/engine"
	"github.com/alertgate/alertgate/internal/core/gate"
	"github.com/alertgate/alertgate/internal/core/store"
	errwrap "github.com/alertgate/alertgate/internal/errors"
	"github.com/alertgate/alertgate/internal/metrics"
	"github.com/alertgate/alertgate/internal/observability"
	"github.com/alertgate/alertgate/internal/playbook"
	"github.com/alertgate/alertgate/internal/server"
	"github.com/alertgate/alertgate/internal/server/handlers"
)

var (
	serverPort int
	serverHost string
)

// telemetryHealthChecker ensures telemetry system and exporter are available
type telemetryHealthChecker struct{}

func (telemetryHealthChecker) CheckHealth(ctx context.Context) error {
	if observability.TelemetrySystem == nil || observability.PrometheusExporter == nil {
		return errwrap.NewInternalError("telemetry system not initialized")
	}
	return nil
}

// storeHealthChecker pings the fire-history database
type storeHealthChecker struct {
	db *store.Store
}

func (s storeHealthChecker) CheckHealth(ctx context.Context) error {
	if s.db == nil || s.db.DB == nil {
		return errwrap.NewInternalError("store not initialized")
	}
	if err := s.db.DB.PingContext(ctx); err != nil {
		return errwrap.WrapDatabaseError(ctx, err, "store ping failed")
	}
	return nil
}

// playbookHealthChecker reports whether any triggers are loaded. It reads
// the live dispatcher so SIGHUP reloads are reflected.
type playbookHealthChecker struct {
	dispatcher *engine.Dispatcher
}

func (p playbookHealthChecker) CheckHealth(ctx context.Context) error {
	if p.dispatcher == nil || p.dispatcher.TriggerCount() == 0 {
		return errwrap.NewConfigInvalidError("no triggers loaded")
	}
	return nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server with graceful shutdown support.

Signal Handling:
  • Ctrl+C (SIGINT) or SIGTERM: Graceful shutdown
  • Ctrl+C twice within 2s: Force quit
  • SIGHUP: Reload config file and playbook triggers

The server will cleanly shut down the HTTP server, close the store, and
flush logs on shutdown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Initialize server logger
		logLevel := viper.GetString("logging.level")
		observability.InitServerLogger(appName, logLevel)

		cfg, err := config.FromViper(nil)
		if err != nil {
			observability.ServerLogger.Error("Invalid configuration", zap.Error(err))
			return errwrap.WrapConfigInvalid(cmd.Context(), err, "configuration validation failed")
		}

		metricsPort := cfg.Metrics.Port
		if metricsPort == 0 {
			metricsPort = 9090
		}

		// Initialize metrics
		if err := observability.InitMetrics(appName, metricsPort); err != nil {
			observability.ServerLogger.Error("Failed to initialize metrics",
				zap.Error(err))
			return errwrap.WrapInternal(cmd.Context(), err, "metrics initialization failed")
		}

		observability.ServerLogger.Info("Initializing server",
			zap.String("service", appName),
			zap.String("version", versionInfo.Version),
			zap.String("host", serverHost),
			zap.Int("port", serverPort),
			zap.Int("metrics_port", metricsPort))

		// Open the fire-history store
		db, err := store.Open(cmd.Context(), cfg.Store)
		if err != nil {
			observability.ServerLogger.Error("Failed to open store", zap.Error(err))
			return errwrap.WrapDatabaseError(cmd.Context(), err, "store open failed")
		}
		if err := db.Migrate(cmd.Context()); err != nil {
			_ = db.Close()
			observability.ServerLogger.Error("Failed to migrate store", zap.Error(err))
			return errwrap.WrapDatabaseError(cmd.Context(), err, "store migration failed")
		}

		// Load trigger definitions
		pb, err := loadPlaybook(cfg)
		if err != nil {
			_ = db.Close()
			observability.ServerLogger.Error("Failed to load playbook", zap.Error(err))
			return errwrap.WrapPlaybookInvalid(cmd.Context(), err, "playbook load failed")
		}

		dispatcher := buildDispatcher(cfg, db, pb)

		observability.ServerLogger.Info("Triggers loaded",
			zap.Int("count", dispatcher.TriggerCount()),
			zap.String("playbook", cfg.Playbook.Path))

		// Initialize health manager
		handlers.InitHealthManager(versionInfo.Version)
		hm := handlers.GetHealthManager()
		hm.RegisterChecker("telemetry", telemetryHealthChecker{})
		hm.RegisterChecker("store", storeHealthChecker{db: db})
		hm.RegisterChecker("playbook", playbookHealthChecker{dispatcher: dispatcher})

		// Create server
		srv := server.New(serverHost, serverPort, server.Dependencies{
			Dispatcher: dispatcher,
			Gate:       dispatcher.Gate,
			Store:      db,
		})

		handlers.SetVersionInfo(versionInfo.Version, versionInfo.Commit, versionInfo.BuildDate)
		metrics.SetServerStartTime(time.Now().Unix())

		// Get shutdown timeout from config
		shutdownTimeout := cfg.Server.ShutdownTimeout
		if shutdownTimeout == 0 {
			shutdownTimeout = 10 * time.Second
		}

		// Register graceful shutdown handlers (LIFO order - last registered, first executed)
		// Handler 1: Flush logger (executed last)
		signals.OnShutdown(func(ctx context.Context) error {
			observability.ServerLogger.Info("Flushing logger...")
			if err := observability.ServerLogger.Sync(); err != nil {
				// Sync errors are often benign (stdout/stderr already closed)
				observability.ServerLogger.Warn("Logger sync returned error (may be benign)",
					zap.Error(err))
			}
			return nil
		})

		// Handler 2: Close the store
		signals.OnShutdown(func(ctx context.Context) error {
			observability.ServerLogger.Info("Closing store...")
			if err := db.Close(); err != nil {
				observability.ServerLogger.Warn("Store close returned error", zap.Error(err))
			}
			return nil
		})

		// Handler 3: Shutdown HTTP server (executed first)
		signals.OnShutdown(func(ctx context.Context) error {
			observability.ServerLogger.Info("Shutting down HTTP server...")
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return errwrap.WrapInternal(ctx, err, "server shutdown failed")
			}

			observability.ServerLogger.Info("HTTP server stopped gracefully")
			return nil
		})

		// Register config reload handler (SIGHUP)
		signals.OnReload(func(ctx context.Context) error {
			observability.ServerLogger.Info("Received SIGHUP: attempting config reload")

			// Attempt to reload configuration
			if err := viper.ReadInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); ok {
					observability.ServerLogger.Info("No config file found - using defaults and environment variables")
					return nil
				}
				observability.ServerLogger.Error("Failed to reload config file",
					zap.String("file", viper.ConfigFileUsed()),
					zap.Error(err))
				return errwrap.WrapConfigInvalid(ctx, err, "config reload failed")
			}

			observability.ServerLogger.Info("Configuration reloaded successfully",
				zap.String("file", viper.ConfigFileUsed()))

			// Reload the playbook so edited trigger definitions take effect
			reloaded, err := loadPlaybook(cfg)
			if err != nil {
				observability.ServerLogger.Error("Playbook reload failed, keeping current triggers",
					zap.Error(err))
				return errwrap.WrapPlaybookInvalid(ctx, err, "playbook reload failed")
			}
			if reloaded != nil {
				// Dispatches run concurrently on handler goroutines.
				dispatcher.ReplaceTriggers(reloaded.Triggers)
				observability.ServerLogger.Info("Playbook reloaded",
					zap.Int("triggers", len(reloaded.Triggers)))
			}

			return nil
		})

		// Enable double-tap force quit (Ctrl+C within 2 seconds)
		if err := signals.EnableDoubleTap(signals.DoubleTapConfig{
			Window:  2 * time.Second,
			Message: "Press Ctrl+C again within 2 seconds to force quit",
		}); err != nil {
			observability.ServerLogger.Warn("Failed to enable double-tap force quit",
				zap.Error(err))
		}

		// Start server in background goroutine
		errChan := make(chan error, 1)
		go func() {
			observability.ServerLogger.Info("Starting HTTP server...",
				zap.String("host", serverHost),
				zap.Int("port", serverPort))
			if err := srv.Start(); err != nil && err != http.ErrServerClosed {
				errChan <- err
			}
		}()

		// Start signal listener in background
		go func() {
			if err := signals.Listen(cmd.Context()); err != nil {
				observability.ServerLogger.Error("Signal handler error", zap.Error(err))
				errChan <- err
			}
		}()

		// Wait for error or shutdown completion
		if err := <-errChan; err != nil {
			return errwrap.WrapInternal(cmd.Context(), err, "server error")
		}

		return nil
	},
}

// loadPlaybook loads trigger definitions from the configured path. No path
// means no triggers, which is valid for a gate-admin-only deployment.
func loadPlaybook(cfg *config.Config) (*playbook.Playbook, error) {
	if cfg == nil || cfg.Playbook.Path == "" {
		return nil, nil
	}
	return playbook.Load(cfg.Playbook.Path)
}

// buildDispatcher wires the gate, triggers, sinks, and history store.
func buildDispatcher(cfg *config.Config, db *store.Store, pb *playbook.Playbook) *engine.Dispatcher {
	dispatcher := &engine.Dispatcher{
		Gate:            gate.New(),
		History:         db,
		DefaultThrottle: cfg.Gate.DefaultThrottle,
	}
	if pb != nil {
		dispatcher.Triggers = pb.Triggers
	}

	if cfg.Sinks.Log.Enabled {
		dispatcher.Sinks = append(dispatcher.Sinks, &engine.LogSink{
			Logger: observability.ServerLogger,
		})
	}
	if cfg.Sinks.Webhook.Enabled {
		dispatcher.Sinks = append(dispatcher.Sinks, &engine.WebhookSink{
			URL:     cfg.Sinks.Webhook.URL,
			Timeout: cfg.Sinks.Webhook.Timeout,
		})
	}

	return dispatcher
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "localhost", "server host")
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "server port")

	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}
