package solver

import (
	"context"

	"evacuation/internal/graph"
)

// =============================================================================
// Min-Cost Flow (Successive Shortest Paths)
// =============================================================================
//
// Routes a target amount of flow from source to sink at minimum total
// cost. Each iteration finds the cheapest augmenting path by Bellman-Ford
// on reduced costs and pushes the bottleneck (capped at the remaining
// target) along it. Potentials are updated after every iteration so
// reduced costs stay non-negative despite the negated backward edges.
//
// Time Complexity: O(F × V × E) where F is the number of augmentations
// Space Complexity: O(V)
// =============================================================================

// MinCostFlowResult contains the outcome of a min-cost flow computation.
type MinCostFlowResult struct {
	// Flow is the amount of flow actually routed. May be less than the
	// requested target if the network cannot carry it.
	Flow float64

	// Cost is the total cost of the routed flow.
	Cost float64

	// Iterations is the number of augmenting paths used.
	Iterations int

	// Paths contains the augmenting paths if ReturnPaths was enabled.
	Paths [][]int64

	// Canceled indicates the operation was canceled via context.
	Canceled bool
}

// MinCostFlow routes up to requiredFlow units at minimum cost.
// Convenience wrapper without context.
func MinCostFlow(g *graph.ResidualGraph, source, sink int64, requiredFlow float64, options *Options) *MinCostFlowResult {
	return MinCostFlowWithContext(context.Background(), g, source, sink, requiredFlow, options)
}

// MinCostFlowWithContext routes up to requiredFlow units at minimum
// cost with cancellation support. Pass graph.Infinity as requiredFlow
// to compute the min-cost maximum flow.
func MinCostFlowWithContext(ctx context.Context, g *graph.ResidualGraph, source, sink int64, requiredFlow float64, options *Options) *MinCostFlowResult {
	if options == nil {
		options = DefaultOptions()
	}

	totalFlow := 0.0
	totalCost := 0.0
	iterations := 0
	var paths [][]int64

	// Initialize potentials from actual shortest distances so the first
	// reduced-cost pass is already consistent.
	potentials := make(map[int64]float64, len(g.Nodes))
	initResult := BellmanFordWithContext(ctx, g, source)
	if initResult.Canceled {
		return &MinCostFlowResult{Canceled: true}
	}
	if !initResult.HasNegativeCycle {
		for node, dist := range initResult.Distances {
			if dist < graph.Infinity {
				potentials[node] = dist
			}
		}
	}

	for totalFlow < requiredFlow-options.Epsilon {
		if options.MaxIterations > 0 && iterations >= options.MaxIterations {
			break
		}

		select {
		case <-ctx.Done():
			return &MinCostFlowResult{
				Flow:       totalFlow,
				Cost:       totalCost,
				Iterations: iterations,
				Paths:      paths,
				Canceled:   true,
			}
		default:
		}

		bfResult := BellmanFordWithPotentials(g, source, potentials)
		if bfResult.Distances[sink] >= graph.Infinity-graph.Epsilon {
			break
		}

		for _, node := range g.SortedNodes() {
			if bfResult.Distances[node] < graph.Infinity {
				potentials[node] += bfResult.Distances[node]
			}
		}

		path := graph.ReconstructPath(g, bfResult.Parent, source, sink)
		if len(path) == 0 {
			break
		}

		pathFlow := min(requiredFlow-totalFlow, graph.MinCapacityOnPath(g, path))
		if pathFlow <= options.Epsilon {
			break
		}

		pathCost := 0.0
		for _, id := range path {
			pathCost += g.Edge(id).Cost * pathFlow
		}

		graph.AugmentPath(g, path, pathFlow)

		totalFlow += pathFlow
		totalCost += pathCost
		iterations++

		if options.ReturnPaths {
			paths = append(paths, graph.PathNodes(g, path))
		}
	}

	return &MinCostFlowResult{
		Flow:       totalFlow,
		Cost:       totalCost,
		Iterations: iterations,
		Paths:      paths,
	}
}
