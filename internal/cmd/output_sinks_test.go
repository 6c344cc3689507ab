package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/alertgate/alertgate/internal/output"
)

func newSinkTestCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "sink-test"}
	cmd.Flags().String("output-format", string(output.FormatTable), "")
	cmd.Flags().String("out", "", "")
	cmd.Flags().String("out-dir", "", "")
	return cmd
}

func TestSanitizeFilename(t *testing.T) {
	require.Equal(t, "history.crash-loop", sanitizeFilename("History.Crash Loop"))
	require.Equal(t, "output", sanitizeFilename("   "))
}

func TestResolveOutputTargetsMutuallyExclusive(t *testing.T) {
	cmd := newSinkTestCommand()
	require.NoError(t, cmd.Flags().Set("out", "history.json"))
	require.NoError(t, cmd.Flags().Set("out-dir", "out"))

	_, _, err := resolveOutputTargets(cmd)
	require.ErrorContains(t, err, "mutually exclusive")
}

func TestResolveSinkDefaultsToStdout(t *testing.T) {
	cmd := newSinkTestCommand()

	sink, err := resolveSink(cmd, output.FormatTable, "history")
	require.NoError(t, err)
	defer func() { _ = sink.close() }()

	require.Equal(t, "-", sink.path)
	require.Equal(t, os.Stdout, sink.writer)
}

func TestResolveSinkNamesFileFromBase(t *testing.T) {
	dir := t.TempDir()
	cmd := newSinkTestCommand()
	require.NoError(t, cmd.Flags().Set("out-dir", dir))

	sink, err := resolveSink(cmd, output.FormatJSON, "history.Crash Loop")
	require.NoError(t, err)
	defer func() { _ = sink.close() }()

	require.Equal(t, filepath.Join(dir, "history.crash-loop.json"), sink.path)
	_, statErr := os.Stat(sink.path)
	require.NoError(t, statErr)
}
