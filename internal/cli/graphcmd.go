package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schedlens/schedlens/internal/analysis"
	"github.com/schedlens/schedlens/internal/graph"
	"github.com/schedlens/schedlens/internal/loader"
)

// GraphOptions holds flags for the graph command.
type GraphOptions struct {
	*RootOptions
	Direction string
	Depth     int
	Scope     string
}

// NewGraphCommand creates the graph command: the bounded-depth subgraph
// extraction surface for viewers.
func NewGraphCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GraphOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "graph <folder/job> <export.yaml>",
		Short: "Extract the dependency subgraph around a job",
		Long: `Extract the induced dependency subgraph around a root job.

The traversal is breadth-first with visited-node deduplication, so it
terminates on cyclic graphs. --depth 0 means unbounded (end-to-end).

Example:
  schedlens graph BILLING/DAILY_LOAD ./export.yaml --direction upstream --depth 3
  schedlens graph BILLING/DAILY_LOAD ./export.yaml --scope external --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Direction, "direction", "both", "traversal direction (upstream|downstream|both)")
	cmd.Flags().IntVar(&opts.Depth, "depth", 0, "depth limit in hops (0 = unbounded)")
	cmd.Flags().StringVar(&opts.Scope, "scope", "all", "edge scope filter (all|internal|external)")

	return cmd
}

func runGraph(opts *GraphOptions, rootKey, exportPath string, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	dir, err := graph.ParseDirection(opts.Direction)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	}
	scope, err := graph.ParseScope(opts.Scope)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	}

	snap, _, err := loader.Load(exportPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load export", err)
	}

	root, ok := snap.JobByKey(rootKey)
	if !ok {
		return NewExitError(ExitCommandError, fmt.Sprintf("job %q not found in export", rootKey))
	}

	g, err := analysis.Graph(snap)
	if err != nil {
		return WrapExitError(ExitFailure, "graph construction aborted", err)
	}

	sub := g.Extract(root, dir, opts.Depth, scope)

	if opts.Format == "json" {
		return out.JSON(sub)
	}

	out.Text("Subgraph around %s (direction=%s depth=%d scope=%s)", rootKey, dir, opts.Depth, scope)
	out.Text("Nodes (%d):", len(sub.Nodes))
	for _, n := range sub.Nodes {
		dc := n.Datacenter
		if dc == "" {
			dc = "-"
		}
		out.Text("  %-40s hops=%d datacenter=%s", n.Key, n.Hops, dc)
	}
	out.Text("Edges (%d):", len(sub.Edges))
	for _, e := range sub.Edges {
		kind := "external"
		if e.Internal {
			kind = "internal"
		}
		out.Text("  %s -> %s  [%s, %s]",
			snap.Job(e.Producer).Key(), snap.Job(e.Consumer).Key(), e.Condition, kind)
	}
	if sub.Truncated {
		out.Text("(expansion truncated at depth %d)", opts.Depth)
	}
	return nil
}
