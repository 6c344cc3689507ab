package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alertgate/alertgate/internal/output"
)

var (
	historyPurgeOlderThan string
	historyPurgeYes       bool
	historyPurgeDryRun    bool
	historyPurgeOutput    string
)

var historyPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete old fire history records",
	Long:  "Delete fire history records evaluated before the given age, e.g. --older-than 720h.",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(historyPurgeOutput)
		if err != nil {
			return err
		}
		if format != output.FormatJSON && format != output.FormatTable {
			return fmt.Errorf("unsupported output format: %s", format)
		}

		olderThan, err := time.ParseDuration(strings.TrimSpace(historyPurgeOlderThan))
		if err != nil || olderThan <= 0 {
			return fmt.Errorf("--older-than must be a positive duration such as 720h")
		}

		if !historyPurgeYes && !historyPurgeDryRun {
			return errors.New("purge requires --yes (or use --dry-run)")
		}

		db, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck // best-effort cleanup

		cutoff := time.Now().UTC().Add(-olderThan)

		if historyPurgeDryRun {
			return writeHistoryPurgeResult(format, cmd, cutoff, 0, true)
		}

		deleted, err := db.PurgeHistory(cmd.Context(), cutoff)
		if err != nil {
			return err
		}

		return writeHistoryPurgeResult(format, cmd, cutoff, deleted, false)
	},
}

func writeHistoryPurgeResult(format output.Format, cmd *cobra.Command, cutoff time.Time, deleted int64, dryRun bool) error {
	if format == output.FormatJSON {
		payload, err := json.MarshalIndent(map[string]any{
			"cutoff":  cutoff.Format(time.RFC3339),
			"deleted": deleted,
			"dry_run": dryRun,
		}, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(payload))
		return nil
	}

	if dryRun {
		cmd.Printf("Would delete records evaluated before %s\n", cutoff.Format(time.RFC3339))
		return nil
	}
	cmd.Printf("Deleted %d record(s) evaluated before %s\n", deleted, cutoff.Format(time.RFC3339))
	return nil
}

func init() {
	historyCmd.AddCommand(historyPurgeCmd)

	historyPurgeCmd.Flags().StringVar(&historyPurgeOlderThan, "older-than", "720h", "Delete records older than this duration")
	historyPurgeCmd.Flags().BoolVar(&historyPurgeYes, "yes", false, "Confirm destructive purge")
	historyPurgeCmd.Flags().BoolVar(&historyPurgeDryRun, "dry-run", false, "Show what would be deleted")
	historyPurgeCmd.Flags().StringVar(&historyPurgeOutput, "output-format", string(output.FormatTable), "Output format: table|json")
}
