package graph

import (
	"fmt"

	"github.com/schedlens/schedlens/internal/model"
)

// Direction selects which way Extract walks from the root.
type Direction string

const (
	DirUpstream   Direction = "upstream"   // follow predecessor edges
	DirDownstream Direction = "downstream" // follow successor edges
	DirBoth       Direction = "both"
)

// Scope filters edges by their internal flag before traversal.
type Scope string

const (
	ScopeAll      Scope = "all"
	ScopeInternal Scope = "internal" // same-folder edges only
	ScopeExternal Scope = "external" // cross-folder edges only
)

// ParseDirection validates a direction string from the boundary.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirUpstream, DirDownstream, DirBoth:
		return Direction(s), nil
	}
	return "", fmt.Errorf("invalid direction %q: must be upstream, downstream, or both", s)
}

// ParseScope validates a scope string from the boundary.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeAll, ScopeInternal, ScopeExternal:
		return Scope(s), nil
	}
	return "", fmt.Errorf("invalid scope %q: must be all, internal, or external", s)
}

// SubNode carries enough job metadata for a viewer to render the node.
type SubNode struct {
	JobID      model.JobID `json:"job_id"`
	Key        string      `json:"key"`
	Name       string      `json:"name"`
	Folder     string      `json:"folder"`
	Datacenter string      `json:"datacenter,omitempty"`
	Hops       int         `json:"hops"` // BFS distance from the root
}

// Subgraph is the induced subgraph around a root job.
type Subgraph struct {
	Root      model.JobID `json:"root"`
	Nodes     []SubNode   `json:"nodes"`
	Edges     []Edge      `json:"edges"`
	Truncated bool        `json:"truncated"` // depth limit stopped expansion
}

// Extract walks the graph breadth-first from root and returns the induced
// subgraph: every job reached within depthLimit hops in the given direction,
// plus every in-scope edge between two visited jobs.
//
// depthLimit <= 0 means unbounded ("end-to-end"). Visited nodes are never
// expanded twice, so extraction terminates on cyclic graphs. Nodes appear in
// BFS discovery order (root first), edges in graph resolution order - both
// deterministic.
func (g *Graph) Extract(root model.JobID, dir Direction, depthLimit int, scope Scope) *Subgraph {
	snap := g.Snapshot()

	inScope := func(e Edge) bool {
		switch scope {
		case ScopeInternal:
			return e.Internal
		case ScopeExternal:
			return !e.Internal
		default:
			return true
		}
	}

	hops := make(map[model.JobID]int)
	hops[root] = 0
	order := []model.JobID{root}
	queue := []model.JobID{root}
	truncated := false

	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		atLimit := depthLimit > 0 && hops[v] >= depthLimit

		var frontier []int
		if dir == DirDownstream || dir == DirBoth {
			frontier = append(frontier, g.Successors(v)...)
		}
		if dir == DirUpstream || dir == DirBoth {
			frontier = append(frontier, g.Predecessors(v)...)
		}
		for _, ei := range frontier {
			e := g.Edge(ei)
			if !inScope(e) {
				continue
			}
			w := e.Producer
			if w == v {
				w = e.Consumer
			}
			if _, visited := hops[w]; visited {
				continue
			}
			if atLimit {
				// An unvisited neighbor exists beyond the limit.
				truncated = true
				continue
			}
			hops[w] = hops[v] + 1
			order = append(order, w)
			queue = append(queue, w)
		}
	}

	sub := &Subgraph{Root: root, Truncated: truncated}
	for _, id := range order {
		job := snap.Job(id)
		node := SubNode{
			JobID:  id,
			Key:    job.Key(),
			Name:   job.Name,
			Folder: job.FolderName,
			Hops:   hops[id],
		}
		if f := snap.FolderByName(job.FolderName); f != nil {
			node.Datacenter = f.Datacenter
		}
		sub.Nodes = append(sub.Nodes, node)
	}

	// Induced edges: both endpoints visited and in scope.
	for _, e := range g.Edges() {
		if !inScope(e) {
			continue
		}
		if _, ok := hops[e.Producer]; !ok {
			continue
		}
		if _, ok := hops[e.Consumer]; !ok {
			continue
		}
		sub.Edges = append(sub.Edges, e)
	}
	return sub
}
