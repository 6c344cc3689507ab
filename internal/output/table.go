package output

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/alertgate/alertgate/internal/core"
	"github.com/alertgate/alertgate/internal/core/gate"
)

// TableFormatter renders results as an ASCII table.
type TableFormatter struct{}

// FormatHistory renders fire records as a table, newest first.
func (f *TableFormatter) FormatHistory(records []core.FireRecord) (string, error) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"ID", "Trigger", "Target", "Decision", "Throttle", "Evaluated At"})

	for _, record := range records {
		t.AppendRow(table.Row{
			record.ID,
			record.Trigger,
			record.Target,
			string(record.Decision),
			formatThrottle(record.Throttle),
			record.EvaluatedAt.UTC().Format(time.RFC3339),
		})
	}

	t.AppendFooter(table.Row{"", "", "", "", "", fmt.Sprintf("%d records", len(records))})

	return t.Render(), nil
}

// FormatGates renders gate entries as a table.
func (f *TableFormatter) FormatGates(entries []gate.Entry) (string, error) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Operation", "ID", "Last Fired"})

	for _, entry := range entries {
		t.AppendRow(table.Row{
			entry.Key.Operation,
			entry.Key.ID,
			entry.LastFired.UTC().Format(time.RFC3339),
		})
	}

	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d tracked", len(entries))})

	return t.Render(), nil
}

func formatThrottle(throttle time.Duration) string {
	if throttle <= 0 {
		return "none"
	}
	return throttle.String()
}
