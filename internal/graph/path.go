package graph

// =============================================================================
// Path Operations
// =============================================================================

// ReconstructPath rebuilds the source-to-sink arc sequence from a
// parent map of arc ids produced by BFS or Bellman-Ford. Returns nil
// if no path exists and an empty path when source equals sink.
func ReconstructPath(rg *ResidualGraph, parent map[int64]int64, source, sink int64) []int {
	if source == sink {
		return []int{}
	}

	var path []int
	current := sink
	for current != source {
		id, ok := parent[current]
		if !ok || id < 0 {
			return nil
		}
		path = append(path, int(id))
		current = rg.Edge(int(id)).From
	}

	// Reverse in place
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathNodes expands an arc-id path into the node sequence it visits.
func PathNodes(rg *ResidualGraph, path []int) []int64 {
	if len(path) == 0 {
		return nil
	}
	nodes := make([]int64, 0, len(path)+1)
	nodes = append(nodes, rg.Edge(path[0]).From)
	for _, id := range path {
		nodes = append(nodes, rg.Edge(id).To)
	}
	return nodes
}

// MinCapacityOnPath returns the bottleneck residual capacity along an
// arc-id path. Returns 0 for an empty path.
func MinCapacityOnPath(rg *ResidualGraph, path []int) float64 {
	if len(path) == 0 {
		return 0
	}

	minCap := Infinity
	for _, id := range path {
		if c := rg.Edge(id).Capacity; c < minCap {
			minCap = c
		}
	}
	return minCap
}

// AugmentPath pushes the given amount of flow along every arc of the
// path. The caller must ensure flow does not exceed the bottleneck.
func AugmentPath(rg *ResidualGraph, path []int, flow float64) {
	for _, id := range path {
		rg.PushFlow(id, flow)
	}
}
