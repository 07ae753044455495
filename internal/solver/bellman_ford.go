package solver

import (
	"context"

	"evacuation/internal/graph"
)

// =============================================================================
// Bellman-Ford Algorithm
// =============================================================================
//
// Bellman-Ford computes shortest paths from a single source in graphs
// that may contain negative edge weights. The residual network always
// contains negated costs on backward edges, so Dijkstra is not directly
// applicable here without potentials.
//
// Time Complexity: O(V × E)
// Space Complexity: O(V)
//
// The WithPotentials variant relaxes on reduced costs
// cost(u,v) + potential[u] - potential[v], which stay non-negative when
// potentials are maintained across successive shortest path iterations.
// =============================================================================

// BellmanFordResult contains shortest path distances and parent
// pointers for path reconstruction.
type BellmanFordResult struct {
	// Distances maps each node to its shortest distance from the source.
	// Unreachable nodes have distance graph.Infinity.
	Distances map[int64]float64

	// Parent maps each node to the arc id used to reach it on the
	// shortest path. The source and unreachable nodes have parent -1.
	Parent map[int64]int64

	// HasNegativeCycle indicates a negative-weight cycle was detected.
	// Distances are not valid in that case.
	HasNegativeCycle bool

	// Canceled indicates the operation was canceled via context.
	Canceled bool
}

// BellmanFord computes shortest distances over actual edge costs.
func BellmanFord(g *graph.ResidualGraph, source int64) *BellmanFordResult {
	return bellmanFord(context.Background(), g, source, nil)
}

// BellmanFordWithPotentials computes shortest distances over reduced
// costs. Used by the successive shortest path algorithm.
func BellmanFordWithPotentials(g *graph.ResidualGraph, source int64, potentials map[int64]float64) *BellmanFordResult {
	return bellmanFord(context.Background(), g, source, potentials)
}

// BellmanFordWithContext is the context-aware variant over actual costs.
func BellmanFordWithContext(ctx context.Context, g *graph.ResidualGraph, source int64) *BellmanFordResult {
	return bellmanFord(ctx, g, source, nil)
}

// bellmanFord runs the relaxation loop. When potentials is non-nil the
// relaxation uses reduced costs. Nodes and edges are processed in a
// deterministic order.
func bellmanFord(ctx context.Context, g *graph.ResidualGraph, source int64, potentials map[int64]float64) *BellmanFordResult {
	nodes := g.SortedNodes()
	n := len(nodes)

	dist := make(map[int64]float64, n)
	parent := make(map[int64]int64, n)

	for _, node := range nodes {
		dist[node] = graph.Infinity
		parent[node] = -1
	}
	dist[source] = 0

	const checkInterval = 100

	for i := 0; i < n-1; i++ {
		if i%checkInterval == 0 {
			select {
			case <-ctx.Done():
				return &BellmanFordResult{
					Distances: dist,
					Parent:    parent,
					Canceled:  true,
				}
			default:
			}
		}

		if !relaxAllEdges(g, nodes, dist, parent, potentials) {
			break
		}
	}

	return &BellmanFordResult{
		Distances:        dist,
		Parent:           parent,
		HasNegativeCycle: hasRelaxableEdge(g, nodes, dist, potentials),
	}
}

// relaxAllEdges performs one relaxation sweep in deterministic order.
// Returns true if any distance improved.
func relaxAllEdges(g *graph.ResidualGraph, nodes []int64, dist map[int64]float64, parent map[int64]int64, potentials map[int64]float64) bool {
	updated := false

	for _, u := range nodes {
		if dist[u] >= graph.Infinity-graph.Epsilon {
			continue
		}

		for _, id := range g.OutgoingEdges(u) {
			edge := g.Edge(id)
			if edge.Capacity <= graph.Epsilon {
				continue
			}
			v := edge.To

			cost := edge.Cost
			if potentials != nil {
				cost += potentials[u] - potentials[v]
			}

			if newDist := dist[u] + cost; newDist < dist[v]-graph.Epsilon {
				dist[v] = newDist
				parent[v] = int64(id)
				updated = true
			}
		}
	}

	return updated
}

// hasRelaxableEdge reports whether any edge can still be relaxed after
// V-1 sweeps, which indicates a negative-weight cycle.
func hasRelaxableEdge(g *graph.ResidualGraph, nodes []int64, dist map[int64]float64, potentials map[int64]float64) bool {
	for _, u := range nodes {
		if dist[u] >= graph.Infinity-graph.Epsilon {
			continue
		}

		for _, id := range g.OutgoingEdges(u) {
			edge := g.Edge(id)
			if edge.Capacity <= graph.Epsilon {
				continue
			}
			v := edge.To

			cost := edge.Cost
			if potentials != nil {
				cost += potentials[u] - potentials[v]
			}

			if dist[u]+cost < dist[v]-graph.Epsilon {
				return true
			}
		}
	}
	return false
}
