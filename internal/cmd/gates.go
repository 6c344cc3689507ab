package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alertgate/alertgate/internal/core/gate"
	"github.com/alertgate/alertgate/internal/observability"
	"github.com/alertgate/alertgate/internal/output"
	"github.com/alertgate/alertgate/internal/server/handlers"
)

var (
	gatesServerURL string

	gatesPruneOlderThan string
	gatesResetOperation string
	gatesResetID        string
)

var gatesClient = &http.Client{
	Timeout: 10 * time.Second,
}

var gatesCmd = &cobra.Command{
	Use:   "gates",
	Short: "Inspect and administer the running gate",
	Long: `Inspect and administer the in-memory gate of a running server.

The gate lives in server memory, so these commands talk to the HTTP API
rather than the local store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := resolveOutputFormat(cmd)
		if err != nil {
			return err
		}

		var list handlers.GatesResponse
		if err := gatesGet(cmd.Context(), "/api/gates", &list); err != nil {
			return err
		}

		entries := list.Entries
		if entries == nil {
			entries = []gate.Entry{}
		}

		rendered, err := output.NewFormatter(format).FormatGates(entries)
		if err != nil {
			return err
		}

		sink, err := resolveSink(cmd, format, "gates")
		if err != nil {
			return err
		}
		defer func() { _ = sink.close() }()

		if _, err := fmt.Fprintln(sink.writer, rendered); err != nil {
			return err
		}
		if sink.path != "-" && observability.CLILogger != nil {
			observability.CLILogger.Info("Wrote gate snapshot", zap.String("path", sink.path))
		}
		return nil
	},
}

var gatesPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Drop gate entries older than a duration",
	RunE: func(cmd *cobra.Command, args []string) error {
		olderThan := strings.TrimSpace(gatesPruneOlderThan)
		if _, err := time.ParseDuration(olderThan); err != nil {
			return fmt.Errorf("--older-than must be a duration such as 24h")
		}

		var result handlers.PruneResponse
		err := gatesPost(cmd.Context(), "/api/gates/prune", handlers.PruneRequest{OlderThan: olderThan}, &result)
		if err != nil {
			return err
		}

		cmd.Printf("Pruned %d entr(ies), %d remaining\n", result.Removed, result.Remaining)
		return nil
	},
}

var gatesResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the last-fire record for one gate key",
	RunE: func(cmd *cobra.Command, args []string) error {
		operation := strings.TrimSpace(gatesResetOperation)
		if operation == "" {
			return fmt.Errorf("--operation is required")
		}

		var result handlers.ResetResponse
		err := gatesPost(cmd.Context(), "/api/gates/reset", handlers.ResetRequest{
			Operation: operation,
			ID:        strings.TrimSpace(gatesResetID),
		}, &result)
		if err != nil {
			return err
		}

		if result.Reset {
			cmd.Println("Gate reset")
		} else {
			cmd.Println("No such gate key")
		}
		return nil
	},
}

func gatesGet(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, gatesServerURL+path, nil)
	if err != nil {
		return err
	}
	return gatesDo(req, out)
}

func gatesPost(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, gatesServerURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return gatesDo(req, out)
}

func gatesDo(req *http.Request, out any) error {
	resp, err := gatesClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w (is the server running?)", req.URL.Path, err)
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func init() {
	rootCmd.AddCommand(gatesCmd)
	gatesCmd.AddCommand(gatesPruneCmd)
	gatesCmd.AddCommand(gatesResetCmd)

	gatesCmd.PersistentFlags().StringVar(&gatesServerURL, "server", "http://localhost:8080", "Base URL of the running server")
	gatesCmd.Flags().String("output-format", string(output.FormatTable), "Output format: table|json|markdown")
	gatesCmd.Flags().String("out", "", "Write output to a file (default stdout)")
	gatesCmd.Flags().String("out-dir", "", "Write output to a directory")

	gatesPruneCmd.Flags().StringVar(&gatesPruneOlderThan, "older-than", "24h", "Drop entries whose last fire is older than this duration")

	gatesResetCmd.Flags().StringVar(&gatesResetOperation, "operation", "", "Gate operation (trigger name)")
	gatesResetCmd.Flags().StringVar(&gatesResetID, "id", "", "Gate id (target)")
}
