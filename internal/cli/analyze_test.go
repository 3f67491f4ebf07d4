package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedlens/schedlens/internal/store"
)

const testExport = `
folders:
  - name: BILLING
    datacenter: DC-EAST
  - name: REPORTING
jobs:
  - name: DAILY_LOAD
    folder: BILLING
    out_conditions:
      - name: LOAD_DONE
  - name: DAILY_REPORT
    folder: REPORTING
    in_conditions:
      - name: LOAD_DONE
  - name: ORPHAN
    folder: NOWHERE
`

func writeExport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testExport), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// TestAnalyze_EndToEnd: analyze persists a run that report can read back.
func TestAnalyze_EndToEnd(t *testing.T) {
	export := writeExport(t)
	db := filepath.Join(t.TempDir(), "schedlens.db")

	out, err := execute(t, "analyze", export, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Jobs analyzed: 2 of 3 attempted")
	assert.Contains(t, out, "MALFORMED_RECORD")

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	runID, err := st.LatestRunID(ctx)
	require.NoError(t, err)

	report, err := st.ReadReport(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Attempted)
	assert.Equal(t, 2, report.Analyzed)
	require.Len(t, report.Folders, 2)
}

// TestAnalyze_JSONSummary emits the standard envelope.
func TestAnalyze_JSONSummary(t *testing.T) {
	export := writeExport(t)

	out, err := execute(t, "--format", "json", "analyze", export)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

// TestAnalyze_GraphTooLarge exits with the failure code.
func TestAnalyze_GraphTooLarge(t *testing.T) {
	export := writeExport(t)

	_, err := execute(t, "analyze", export, "--max-nodes", "1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

// TestAnalyze_MissingExport exits with the command-error code.
func TestAnalyze_MissingExport(t *testing.T) {
	_, err := execute(t, "analyze", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

// TestGraphCommand_Extract prints the bounded subgraph.
func TestGraphCommand_Extract(t *testing.T) {
	export := writeExport(t)

	out, err := execute(t, "graph", "BILLING/DAILY_LOAD", export, "--direction", "downstream")
	require.NoError(t, err)
	assert.Contains(t, out, "BILLING/DAILY_LOAD")
	assert.Contains(t, out, "REPORTING/DAILY_REPORT")
	assert.Contains(t, out, "[LOAD_DONE, external]")
}

// TestGraphCommand_UnknownRoot exits with the command-error code.
func TestGraphCommand_UnknownRoot(t *testing.T) {
	export := writeExport(t)

	_, err := execute(t, "graph", "NOPE/MISSING", export)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

// TestWaves_ReadsBack lists jobs per wave from a persisted run.
func TestWaves_ReadsBack(t *testing.T) {
	export := writeExport(t)
	db := filepath.Join(t.TempDir(), "schedlens.db")

	_, err := execute(t, "analyze", export, "--db", db)
	require.NoError(t, err)

	out, err := execute(t, "waves", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Wave 2")
	assert.Contains(t, out, "BILLING/DAILY_LOAD")
}
