package solver

import (
	"math"

	"evacuation/internal/graph"
)

// =============================================================================
// Minimum Cut
// =============================================================================
//
// After a max-flow computation the residual network contains no
// augmenting path, so the set S of nodes reachable from the source
// defines a minimum s-t cut. By the max-flow min-cut theorem the total
// original capacity of forward edges crossing from S to its complement
// equals the maximum flow value; checking that equality is a cheap
// correctness certificate for the solver.
// =============================================================================

// CutEdge is a saturated edge crossing the minimum cut.
type CutEdge struct {
	From     int64
	To       int64
	Capacity float64
}

// MinCutResult describes the minimum cut of a solved network.
type MinCutResult struct {
	// SourceSide is the set of nodes reachable from the source in the
	// residual network after max flow.
	SourceSide map[int64]bool

	// Edges are the forward edges crossing the cut.
	Edges []CutEdge

	// Capacity is the total original capacity of the cut edges.
	Capacity float64
}

// MinCut extracts the minimum cut from a residual network on which a
// max-flow algorithm has already run.
func MinCut(g *graph.ResidualGraph, source int64) *MinCutResult {
	sourceSide := graph.ReachableFrom(g, source)

	result := &MinCutResult{SourceSide: sourceSide}

	for _, from := range g.SortedNodes() {
		if !sourceSide[from] {
			continue
		}
		for _, id := range g.OutgoingEdges(from) {
			edge := g.Edge(id)
			if edge.IsReverse || sourceSide[edge.To] {
				continue
			}
			result.Edges = append(result.Edges, CutEdge{
				From:     from,
				To:       edge.To,
				Capacity: edge.OriginalCapacity,
			})
			result.Capacity += edge.OriginalCapacity
		}
	}

	return result
}

// VerifyMaxFlow checks the max-flow min-cut certificate: the cut
// capacity must equal the flow value within tolerance.
func VerifyMaxFlow(g *graph.ResidualGraph, source int64, maxFlow float64) (*MinCutResult, bool) {
	cut := MinCut(g, source)
	return cut, math.Abs(cut.Capacity-maxFlow) <= 1e-6*math.Max(1, math.Abs(maxFlow))
}
