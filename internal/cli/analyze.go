package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/schedlens/schedlens/internal/analysis"
	"github.com/schedlens/schedlens/internal/loader"
	"github.com/schedlens/schedlens/internal/model"
	"github.com/schedlens/schedlens/internal/store"
)

// AnalyzeOptions holds flags for the analyze command.
type AnalyzeOptions struct {
	*RootOptions
	Database       string
	MaxNodes       int
	MaxEdges       int
	Wave2Threshold int
	Workers        int
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AnalyzeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "analyze <export.yaml>",
		Short: "Analyze a scheduler export",
		Long: `Analyze a normalized scheduler export: build the dependency graph, detect
cycles, score every job, and assign migration waves.

With --db the full report is persisted so report/waves can read it back later.

Example:
  schedlens analyze ./export.yaml
  schedlens analyze --db ./schedlens.db ./export.yaml --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database for persisting results")
	cmd.Flags().IntVar(&opts.MaxNodes, "max-nodes", 0, "graph node limit (0 = default)")
	cmd.Flags().IntVar(&opts.MaxEdges, "max-edges", 0, "graph edge limit (0 = default)")
	cmd.Flags().IntVar(&opts.Wave2Threshold, "wave2-threshold", 0, "low-dependency cutoff for wave 2 (0 = default)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "scoring worker count (0 = NumCPU)")

	return cmd
}

func runAnalyze(opts *AnalyzeOptions, exportPath string, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	slog.Info("loading export", "path", exportPath)
	snap, warnings, err := loader.Load(exportPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load export", err)
	}
	slog.Info("export loaded", "jobs", len(snap.Jobs), "folders", len(snap.Folders), "warnings", len(warnings))

	runOpts := []analysis.Option{analysis.WithSource(exportPath)}
	if opts.MaxNodes > 0 {
		runOpts = append(runOpts, analysis.WithMaxNodes(opts.MaxNodes))
	}
	if opts.MaxEdges > 0 {
		runOpts = append(runOpts, analysis.WithMaxEdges(opts.MaxEdges))
	}
	if opts.Wave2Threshold > 0 {
		runOpts = append(runOpts, analysis.WithWave2Threshold(opts.Wave2Threshold))
	}
	if opts.Workers > 0 {
		runOpts = append(runOpts, analysis.WithWorkers(opts.Workers))
	}

	report, err := analysis.Run(cmd.Context(), snap, warnings, runOpts...)
	if err != nil {
		if analysis.IsGraphTooLarge(err) {
			return WrapExitError(ExitFailure, "analysis aborted", err)
		}
		return WrapExitError(ExitFailure, "analysis failed", err)
	}

	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
		if err := st.SaveReport(cmd.Context(), report); err != nil {
			return WrapExitError(ExitCommandError, "failed to persist report", err)
		}
		slog.Info("report persisted", "run_id", report.RunID, "db", opts.Database)
	}

	if opts.Format == "json" {
		return out.JSON(analyzeSummary(report))
	}
	printSummary(out, report)
	return nil
}

// analyzeSummary is the json payload for analyze: the headline numbers, not
// the full per-job dump (that's what report is for).
func analyzeSummary(r *model.Report) map[string]any {
	waves := r.WaveCounts()
	return map[string]any{
		"run_id":    r.RunID,
		"attempted": r.Attempted,
		"analyzed":  r.Analyzed,
		"warnings":  len(r.Warnings),
		"folders":   len(r.Folders),
		"cycles":    len(r.Cycles),
		"waves": map[string]int{
			"wave_1": waves[1], "wave_2": waves[2], "wave_3": waves[3],
			"wave_4": waves[4], "wave_5": waves[5],
		},
	}
}

func printSummary(out *OutputFormatter, r *model.Report) {
	out.Text("Run %s", r.RunID)
	out.Text("Jobs analyzed: %d of %d attempted", r.Analyzed, r.Attempted)
	if len(r.Warnings) > 0 {
		out.Text("Warnings: %d", len(r.Warnings))
		for _, w := range r.Warnings {
			out.Text("  [%s] %s", w.Code, w.Message)
		}
	}
	out.Text("Cycles detected: %d", len(r.Cycles))
	waves := r.WaveCounts()
	for w := 1; w <= 5; w++ {
		out.Text("Wave %d: %d jobs", w, waves[w])
	}
	complexFolders := 0
	for i := range r.Folders {
		if r.Folders[i].Class == model.FolderComplex {
			complexFolders++
		}
	}
	out.Text("Folders: %d (%d complex)", len(r.Folders), complexFolders)
}
