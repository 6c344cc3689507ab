package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/alertgate/alertgate/internal/core"
	"github.com/alertgate/alertgate/internal/core/gate"
)

// MarkdownFormatter renders results as a markdown table.
type MarkdownFormatter struct{}

// FormatHistory renders fire records as Markdown.
func (f *MarkdownFormatter) FormatHistory(records []core.FireRecord) (string, error) {
	var sb strings.Builder
	sb.WriteString("## Fire history\n\n")
	sb.WriteString("| ID | Trigger | Target | Decision | Throttle | Evaluated At |\n")
	sb.WriteString("|----|---------|--------|----------|----------|--------------|\n")

	for _, record := range records {
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s |\n",
			record.ID,
			escapeMarkdownCell(record.Trigger),
			escapeMarkdownCell(record.Target),
			escapeMarkdownCell(string(record.Decision)),
			escapeMarkdownCell(formatThrottle(record.Throttle)),
			record.EvaluatedAt.UTC().Format(time.RFC3339),
		))
	}

	sb.WriteString(fmt.Sprintf("\n**Total**: %d records\n", len(records)))
	return sb.String(), nil
}

// FormatGates renders gate entries as Markdown.
func (f *MarkdownFormatter) FormatGates(entries []gate.Entry) (string, error) {
	var sb strings.Builder
	sb.WriteString("## Tracked gates\n\n")
	sb.WriteString("| Operation | ID | Last Fired |\n")
	sb.WriteString("|-----------|----|------------|\n")

	for _, entry := range entries {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
			escapeMarkdownCell(entry.Key.Operation),
			escapeMarkdownCell(entry.Key.ID),
			entry.LastFired.UTC().Format(time.RFC3339),
		))
	}

	sb.WriteString(fmt.Sprintf("\n**Total**: %d tracked\n", len(entries)))
	return sb.String(), nil
}

func escapeMarkdownCell(value string) string {
	value = strings.ReplaceAll(value, "|", "\\|")
	value = strings.ReplaceAll(value, "\n", " ")
	return value
}
