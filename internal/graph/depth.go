package graph

// Depths computes the dependency depth of every job over the condensation
// graph (SCCs collapsed to single nodes, guaranteed acyclic).
//
//	depth(c) = 0                      if c has no predecessor components
//	depth(c) = 1 + max(depth(pred))   otherwise
//
// Every job in a component shares the component's depth: a cycle moves as a
// unit, so it migrates as a unit. One Kahn topological pass over the
// condensation, O(V+E).
func Depths(g *Graph, r *SCCResult) []int {
	nc := r.ComponentCount()

	// Condensation adjacency. Dedup parallel edges between the same component
	// pair; duplicates would not change depths but would inflate indegrees.
	seen := make(map[[2]int]struct{})
	csucc := make([][]int, nc)
	indeg := make([]int, nc)
	for _, e := range g.Edges() {
		from, to := r.Comp[e.Producer], r.Comp[e.Consumer]
		if from == to {
			continue
		}
		key := [2]int{from, to}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		csucc[from] = append(csucc[from], to)
		indeg[to]++
	}

	compDepth := make([]int, nc)
	queue := make([]int, 0, nc)
	for c := 0; c < nc; c++ {
		if indeg[c] == 0 {
			queue = append(queue, c)
		}
	}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, d := range csucc[c] {
			if compDepth[c]+1 > compDepth[d] {
				compDepth[d] = compDepth[c] + 1
			}
			indeg[d]--
			if indeg[d] == 0 {
				queue = append(queue, d)
			}
		}
	}

	depths := make([]int, g.NodeCount())
	for id := range depths {
		depths[id] = compDepth[r.Comp[id]]
	}
	return depths
}
