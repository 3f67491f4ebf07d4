package graph

import (
	"github.com/schedlens/schedlens/internal/model"
)

// SCCResult holds the strongly connected components of a graph.
//
// Comp maps each job to its component number. Components are numbered in
// the order Tarjan finishes them (reverse topological order: a component's
// successors in the condensation always have lower numbers).
type SCCResult struct {
	// Comp[id] is the component number of job id.
	Comp []int
	// Members[c] lists the jobs of component c in ascending JobID order.
	Members [][]model.JobID
}

// ComponentCount returns the number of components.
func (r *SCCResult) ComponentCount() int { return len(r.Members) }

// InCycle reports whether job id belongs to a cycle: a component of size >1,
// or a single node with a self-loop (checked by the caller via the graph).
func (r *SCCResult) InCycle(id model.JobID, g *Graph) bool {
	c := r.Comp[id]
	return len(r.Members[c]) > 1 || g.HasSelfLoop(id)
}

// sccFrame is one suspended visit in the iterative Tarjan traversal.
type sccFrame struct {
	v    model.JobID
	edge int // next successor edge offset to examine
}

// SCCs computes strongly connected components with an iterative Tarjan pass.
//
// The traversal keeps its own frame stack instead of recursing: legacy
// exports routinely contain dependency chains tens of thousands of jobs long,
// which would overflow the goroutine stack under the recursive formulation.
// O(V+E). Roots are visited in ascending JobID order so component numbering
// is deterministic for a given snapshot.
func SCCs(g *Graph) *SCCResult {
	n := g.NodeCount()

	const unvisited = -1
	index := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	comp := make([]int, n)
	for i := range index {
		index[i] = unvisited
		comp[i] = unvisited
	}

	var (
		next    int // next DFS index
		stack   []model.JobID
		frames  []sccFrame
		members [][]model.JobID
	)

	for root := 0; root < n; root++ {
		if index[root] != unvisited {
			continue
		}
		frames = append(frames[:0], sccFrame{v: model.JobID(root)})
		index[root] = next
		lowlink[root] = next
		next++
		stack = append(stack, model.JobID(root))
		onStack[root] = true

		for len(frames) > 0 {
			f := &frames[len(frames)-1]
			v := f.v
			succ := g.Successors(v)

			if f.edge < len(succ) {
				w := g.Edge(succ[f.edge]).Consumer
				f.edge++
				if index[w] == unvisited {
					index[w] = next
					lowlink[w] = next
					next++
					stack = append(stack, w)
					onStack[w] = true
					frames = append(frames, sccFrame{v: w})
				} else if onStack[w] {
					if index[w] < lowlink[v] {
						lowlink[v] = index[w]
					}
				}
				continue
			}

			// All successors of v examined: pop the frame.
			frames = frames[:len(frames)-1]
			if len(frames) > 0 {
				parent := frames[len(frames)-1].v
				if lowlink[v] < lowlink[parent] {
					lowlink[parent] = lowlink[v]
				}
			}

			if lowlink[v] == index[v] {
				// v roots a component: pop the node stack down to v.
				c := len(members)
				var scc []model.JobID
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					comp[w] = c
					scc = append(scc, w)
					if w == v {
						break
					}
				}
				// Popped in reverse visitation order; ascending JobID is
				// the stable order downstream consumers rely on.
				sortJobIDs(scc)
				members = append(members, scc)
			}
		}
	}

	return &SCCResult{Comp: comp, Members: members}
}

// Cycles extracts the reportable cycles from an SCC result: components of
// size >1 plus self-loops, each as an ordered job sequence. Cycles are a
// finding, never a failure - the analysis always completes.
func Cycles(g *Graph, r *SCCResult) []model.Cycle {
	snap := g.Snapshot()
	var cycles []model.Cycle
	for _, scc := range r.Members {
		if len(scc) == 1 && !g.HasSelfLoop(scc[0]) {
			continue
		}
		cyc := model.Cycle{JobIDs: append([]model.JobID(nil), scc...)}
		for _, id := range cyc.JobIDs {
			cyc.Keys = append(cyc.Keys, snap.Job(id).Key())
		}
		cycles = append(cycles, cyc)
	}
	return cycles
}

// insertion sort: SCCs are tiny compared to the graph, and this avoids an
// interface-boxing sort.Slice in the hot path.
func sortJobIDs(ids []model.JobID) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}
