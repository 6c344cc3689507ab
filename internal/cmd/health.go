package cmd

import (
	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alertgate/alertgate/internal/config"
	errwrap "github.com/alertgate/alertgate/internal/errors"
	"github.com/alertgate/alertgate/internal/observability"
	"github.com/alertgate/alertgate/internal/playbook"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Run self-health check",
	Long:  "Run a self-health check to verify the application can start successfully.",
	Run: func(cmd *cobra.Command, args []string) {
		observability.CLILogger.Info("Running health check...")

		// Check 1: Version info available
		if versionInfo.Version == "" {
			observability.CLILogger.Error("❌ FAIL: Version information missing")
			ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "Version information missing", errwrap.NewConfigInvalidError("Version information missing"))
			return
		}
		observability.CLILogger.Debug("Version check passed", zap.String("version", versionInfo.Version))
		observability.CLILogger.Info("✅ Version information available")

		// Check 2: Logger initialized
		if observability.CLILogger == nil {
			// Can't log if logger is nil, so use stderr
			ExitWithCodeStderr(foundry.ExitConfigInvalid, "Logger not initialized", errwrap.NewConfigInvalidError("Logger not initialized"))
			return
		}
		observability.CLILogger.Info("✅ Logger initialized")

		// Check 3: Configuration decodes and validates
		cfg, err := config.FromViper(nil)
		if err != nil {
			observability.CLILogger.Error("❌ FAIL: Configuration invalid", zap.Error(err))
			ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "Configuration invalid", err)
			return
		}
		observability.CLILogger.Info("✅ Configuration system ready")

		// Check 4: Store opens and migrates
		db, err := openStore(cmd.Context())
		if err != nil {
			observability.CLILogger.Error("❌ FAIL: Store unavailable", zap.Error(err))
			ExitWithCode(observability.CLILogger, foundry.ExitFailure, "Store unavailable", err)
			return
		}
		_ = db.Close()
		observability.CLILogger.Info("✅ Store reachable")

		// Check 5: Playbook parses when configured
		if cfg.Playbook.Path != "" {
			pb, err := playbook.Load(cfg.Playbook.Path)
			if err != nil {
				observability.CLILogger.Error("❌ FAIL: Playbook invalid", zap.Error(err))
				ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "Playbook invalid", err)
				return
			}
			observability.CLILogger.Info("✅ Playbook valid", zap.Int("triggers", len(pb.Triggers)))
		}

		// Overall status
		observability.CLILogger.Info("")
		observability.CLILogger.Info("✅ All health checks passed")
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
