package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alertgate/alertgate/internal/core"
	"github.com/alertgate/alertgate/internal/core/store"
	"github.com/alertgate/alertgate/internal/observability"
	"github.com/alertgate/alertgate/internal/output"
)

var (
	historyAll      bool
	historyTrigger  string
	historyTarget   string
	historyDecision string
	historyLimit    int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded gate evaluations",
	Long: `List fire history from the local store, newest first.

Filter by trigger, target, or decision; --all lists everything.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := resolveOutputFormat(cmd)
		if err != nil {
			return err
		}

		var decision core.Decision
		if value := strings.TrimSpace(historyDecision); value != "" {
			switch core.Decision(value) {
			case core.DecisionFired, core.DecisionSuppressed:
				decision = core.Decision(value)
			default:
				return fmt.Errorf("decision must be fired or suppressed, got %q", value)
			}
		}

		db, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck // best-effort cleanup

		query := store.HistoryQuery{
			All:      historyAll,
			Trigger:  strings.TrimSpace(historyTrigger),
			Target:   strings.TrimSpace(historyTarget),
			Decision: decision,
			Limit:    historyLimit,
		}
		if !query.All && query.Trigger == "" && query.Target == "" && query.Decision == "" {
			query.All = true
		}

		records, err := db.ListHistory(cmd.Context(), query)
		if err != nil {
			return err
		}

		base := "history"
		if query.Trigger != "" {
			base = "history." + query.Trigger
		}
		sink, err := resolveSink(cmd, format, base)
		if err != nil {
			return err
		}
		defer func() { _ = sink.close() }()

		rendered, err := output.NewFormatter(format).FormatHistory(records)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintln(sink.writer, rendered); err != nil {
			return err
		}
		if sink.path != "-" && observability.CLILogger != nil {
			observability.CLILogger.Info("Wrote fire history", zap.String("path", sink.path))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().String("output-format", string(output.FormatTable), "Output format: table|json|markdown")
	historyCmd.Flags().String("out", "", "Write output to a file (default stdout)")
	historyCmd.Flags().String("out-dir", "", "Write output to a directory")
	historyCmd.Flags().BoolVar(&historyAll, "all", false, "List all records")
	historyCmd.Flags().StringVar(&historyTrigger, "trigger", "", "Filter by trigger name")
	historyCmd.Flags().StringVar(&historyTarget, "target", "", "Filter by target")
	historyCmd.Flags().StringVar(&historyDecision, "decision", "", "Filter by decision: fired|suppressed")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "Maximum records to return (default 100)")
}
