package observability_test

import (
	"testing"

	"go.uber.org/zap"

	"github.com/alertgate/alertgate/internal/observability"
)

func TestInitCLILogger(t *testing.T) {
	observability.InitCLILogger("alertgate-test", false)

	if observability.CLILogger == nil {
		t.Fatal("CLI logger should not be nil after initialization")
	}

	observability.CLILogger.Info("Test CLI log message",
		zap.String("component", "test"))
}

func TestInitServerLogger(t *testing.T) {
	observability.InitServerLogger("alertgate-test", "debug")

	if observability.ServerLogger == nil {
		t.Fatal("Server logger should not be nil after initialization")
	}

	observability.ServerLogger.Info("Test structured log message",
		zap.String("trigger", "restart-loop"),
		zap.String("decision", "suppressed"))
}
