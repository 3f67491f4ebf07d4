package graph

import (
	"fmt"
	"sort"

	"github.com/schedlens/schedlens/internal/model"
)

// Edge is one resolved dependency: Producer's out-condition satisfied
// Consumer's in-condition of the same name. Edges reference jobs by id only;
// they never own the records.
type Edge struct {
	Producer  model.JobID `json:"producer"`
	Consumer  model.JobID `json:"consumer"`
	Condition string      `json:"condition"`
	ODate     string      `json:"odate,omitempty"`
	Internal  bool        `json:"internal"` // producer and consumer share a folder
}

// Limits guards graph materialization against resource exhaustion. A partial
// graph would yield misleading scores, so exceeding a limit aborts the whole
// analysis instead of degrading.
type Limits struct {
	MaxNodes int
	MaxEdges int
}

// DefaultLimits is sized for the largest exports seen in practice (tens of
// thousands of jobs, hundreds of thousands of conditions) with headroom.
var DefaultLimits = Limits{MaxNodes: 200_000, MaxEdges: 2_000_000}

// TooLargeError reports that the graph exceeded its configured limits.
type TooLargeError struct {
	Nodes, Edges       int
	MaxNodes, MaxEdges int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("graph too large: %d nodes / %d edges exceeds limits (%d nodes / %d edges)",
		e.Nodes, e.Edges, e.MaxNodes, e.MaxEdges)
}

// Graph is the materialized dependency graph for one snapshot: the edge list
// plus bidirectional adjacency, all keyed by dense JobID. Immutable once
// Build returns.
type Graph struct {
	snap  *model.Snapshot
	edges []Edge

	// succ[id] / pred[id] are indices into edges, in insertion order.
	succ [][]int
	pred [][]int

	// unresolved maps consumer job id -> sorted distinct in-condition names
	// with no known producer (external/unknown upstream markers).
	unresolved map[model.JobID][]string
}

// Build resolves every in-condition against the index and materializes the
// edge list with forward and backward adjacency.
//
// For job J and in-condition C: every producer P of C with P != J yields edge
// P→J. A condition whose only producer is J itself, or with no producer at
// all, becomes an unresolved marker on J rather than being silently dropped.
//
// Runs in O(V+E) after the index build. Returns *TooLargeError when the
// node or edge count exceeds limits.
func Build(snap *model.Snapshot, idx *Index, limits Limits) (*Graph, error) {
	n := len(snap.Jobs)
	if limits.MaxNodes > 0 && n > limits.MaxNodes {
		return nil, &TooLargeError{Nodes: n, MaxNodes: limits.MaxNodes, MaxEdges: limits.MaxEdges}
	}

	g := &Graph{
		snap:       snap,
		succ:       make([][]int, n),
		pred:       make([][]int, n),
		unresolved: make(map[model.JobID][]string),
	}

	for i := range snap.Jobs {
		consumer := model.JobID(i)
		job := &snap.Jobs[i]
		for _, c := range job.InConditions {
			name := NormalizeName(c.Name)
			if name == "" {
				continue
			}
			resolved := false
			for _, producer := range idx.Producers(name) {
				if producer == consumer {
					continue // self-satisfied condition is not a dependency
				}
				resolved = true
				ei := len(g.edges)
				g.edges = append(g.edges, Edge{
					Producer:  producer,
					Consumer:  consumer,
					Condition: name,
					ODate:     c.ODate,
					Internal:  snap.Jobs[producer].FolderName == job.FolderName,
				})
				g.succ[producer] = append(g.succ[producer], ei)
				g.pred[consumer] = append(g.pred[consumer], ei)

				if limits.MaxEdges > 0 && len(g.edges) > limits.MaxEdges {
					return nil, &TooLargeError{
						Nodes: n, Edges: len(g.edges),
						MaxNodes: limits.MaxNodes, MaxEdges: limits.MaxEdges,
					}
				}
			}
			if !resolved {
				g.markUnresolved(consumer, name)
			}
		}
	}

	return g, nil
}

func (g *Graph) markUnresolved(id model.JobID, name string) {
	names := g.unresolved[id]
	for _, existing := range names {
		if existing == name {
			return
		}
	}
	names = append(names, name)
	sort.Strings(names)
	g.unresolved[id] = names
}

// NodeCount returns the number of jobs in the graph.
func (g *Graph) NodeCount() int { return len(g.succ) }

// EdgeCount returns the number of resolved edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Edges returns the full edge list in resolution order. Shared slice; do not
// mutate.
func (g *Graph) Edges() []Edge { return g.edges }

// Edge returns the edge at index ei.
func (g *Graph) Edge(ei int) Edge { return g.edges[ei] }

// Successors returns edge indices leaving id (id is the producer).
func (g *Graph) Successors(id model.JobID) []int { return g.succ[id] }

// Predecessors returns edge indices entering id (id is the consumer).
func (g *Graph) Predecessors(id model.JobID) []int { return g.pred[id] }

// Unresolved returns the sorted distinct unresolved in-condition names for a
// job, or nil when every in-condition had a producer.
func (g *Graph) Unresolved(id model.JobID) []string { return g.unresolved[id] }

// Snapshot returns the snapshot the graph was built from.
func (g *Graph) Snapshot() *model.Snapshot { return g.snap }

// HasSelfLoop reports whether id has an edge to itself. Build never creates
// one from a job's own conditions, but the check keeps SCC reporting honest
// if edges are ever added another way.
func (g *Graph) HasSelfLoop(id model.JobID) bool {
	for _, ei := range g.succ[id] {
		if g.edges[ei].Consumer == id {
			return true
		}
	}
	return false
}
