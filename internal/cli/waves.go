package cli

import (
	"github.com/spf13/cobra"

	"github.com/schedlens/schedlens/internal/model"
)

// WavesOptions holds flags for the waves command.
type WavesOptions struct {
	*RootOptions
	Database string
	RunID    string
}

// NewWavesCommand creates the waves command.
func NewWavesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WavesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "waves",
		Short: "Show the migration wave breakdown for a run",
		Long: `Show the wave histogram and the jobs assigned to each wave for a
persisted analysis run. Defaults to the most recent run.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWaves(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run ID (default: most recent)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// waveBreakdown is the waves payload in both formats.
type waveBreakdown struct {
	RunID  string              `json:"run_id"`
	Counts map[string]int      `json:"counts"`
	Jobs   map[string][]string `json:"jobs"` // wave label -> job keys, report order
}

func runWaves(opts *WavesOptions, cmd *cobra.Command) error {
	report, err := loadReport(cmd, opts.Database, opts.RunID)
	if err != nil {
		return err
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	breakdown := buildWaveBreakdown(report)

	if opts.Format == "json" {
		return out.JSON(breakdown)
	}

	out.Text("Run %s", report.RunID)
	labels := [5]string{"wave_1", "wave_2", "wave_3", "wave_4", "wave_5"}
	for w := 1; w <= 5; w++ {
		label := labels[w-1]
		out.Text("Wave %d (%d jobs):", w, breakdown.Counts[label])
		for _, key := range breakdown.Jobs[label] {
			out.Text("  %s", key)
		}
	}
	return nil
}

func buildWaveBreakdown(r *model.Report) waveBreakdown {
	b := waveBreakdown{
		RunID:  r.RunID,
		Counts: make(map[string]int, 5),
		Jobs:   make(map[string][]string, 5),
	}
	labels := [6]string{"", "wave_1", "wave_2", "wave_3", "wave_4", "wave_5"}
	for w := 1; w <= 5; w++ {
		b.Counts[labels[w]] = 0
		b.Jobs[labels[w]] = []string{}
	}
	for i := range r.Jobs {
		jr := &r.Jobs[i]
		if jr.Wave < 1 || jr.Wave > 5 {
			continue
		}
		label := labels[jr.Wave]
		b.Counts[label]++
		b.Jobs[label] = append(b.Jobs[label], jr.Key)
	}
	return b
}
