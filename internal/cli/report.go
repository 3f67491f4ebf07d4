package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/schedlens/schedlens/internal/model"
	"github.com/schedlens/schedlens/internal/store"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	Database string
	RunID    string
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a persisted analysis report",
		Long: `Print the full report for a persisted analysis run.

Defaults to the most recent run when --run is omitted.

Example:
  schedlens report --db ./schedlens.db
  schedlens report --db ./schedlens.db --run 0193b2de-... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run ID (default: most recent)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runReport(opts *ReportOptions, cmd *cobra.Command) error {
	report, err := loadReport(cmd, opts.Database, opts.RunID)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
		return out.JSON(report)
	}
	return RenderReport(cmd.OutOrStdout(), report)
}

// loadReport opens the store and reads the requested (or latest) run.
// Shared by report and waves.
func loadReport(cmd *cobra.Command, dbPath, runID string) (*model.Report, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if runID == "" {
		runID, err = st.LatestRunID(cmd.Context())
		if errors.Is(err, store.ErrRunNotFound) {
			return nil, NewExitError(ExitCommandError, "no analysis runs in database")
		}
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to find latest run", err)
		}
	}

	report, err := st.ReadReport(cmd.Context(), runID)
	if errors.Is(err, store.ErrRunNotFound) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("run %s not found", runID))
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read report", err)
	}
	return report, nil
}

// RenderReport writes the human-readable report. Deterministic for a given
// report: results are already ordered (jobs by id, folders by name, cycles by
// detection order), so the output is golden-testable.
func RenderReport(w io.Writer, r *model.Report) error {
	fmt.Fprintf(w, "Analysis run %s\n", r.RunID)
	if r.Source != "" {
		fmt.Fprintf(w, "Source: %s\n", r.Source)
	}
	fmt.Fprintf(w, "Jobs analyzed: %d of %d attempted\n\n", r.Analyzed, r.Attempted)

	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "Warnings (%d):\n", len(r.Warnings))
		for _, warning := range r.Warnings {
			fmt.Fprintf(w, "  [%s] %s\n", warning.Code, warning.Message)
		}
		fmt.Fprintln(w)
	}

	waves := r.WaveCounts()
	fmt.Fprintln(w, "Migration waves:")
	for wave := 1; wave <= 5; wave++ {
		fmt.Fprintf(w, "  Wave %d: %4d jobs\n", wave, waves[wave])
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Jobs:")
	fmt.Fprintf(w, "  %-40s %6s %-8s %4s %5s %-9s %s\n",
		"JOB", "SCORE", "DIFF", "WAVE", "DEPTH", "TOPOLOGY", "FLAGS")
	for i := range r.Jobs {
		jr := &r.Jobs[i]
		var flags []string
		if jr.InCycle {
			flags = append(flags, "cycle")
		}
		if len(jr.Unresolved) > 0 {
			flags = append(flags, fmt.Sprintf("unresolved:%d", len(jr.Unresolved)))
		}
		flagCol := "-"
		if len(flags) > 0 {
			flagCol = strings.Join(flags, ",")
		}
		fmt.Fprintf(w, "  %-40s %6d %-8s %4d %5d %-9s %s\n",
			jr.Key, jr.Score, jr.Difficulty, jr.Wave, jr.Depth, jr.Topology, flagCol)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Folders:")
	for i := range r.Folders {
		fr := &r.Folders[i]
		fmt.Fprintf(w, "  %-30s %-14s jobs=%d internal_dep=%d external_dep=%d\n",
			fr.Name, fr.Class, fr.JobCount, fr.InternalDep, fr.ExternalDep)
	}

	if len(r.Cycles) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Cycles (%d):\n", len(r.Cycles))
		for i, c := range r.Cycles {
			fmt.Fprintf(w, "  %d: %s\n", i+1, strings.Join(c.Keys, " -> "))
		}
	}
	return nil
}
