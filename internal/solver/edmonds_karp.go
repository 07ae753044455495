package solver

import (
	"context"

	"evacuation/internal/graph"
)

// =============================================================================
// Edmonds-Karp Algorithm
// =============================================================================
//
// Edmonds-Karp is the Ford-Fulkerson method with BFS augmenting paths.
// Always choosing the shortest path (by edge count) bounds the number of
// augmentations and makes the result independent of capacity magnitudes.
//
// Time Complexity: O(V × E²)
// Space Complexity: O(V + E)
//
// References:
//   - Edmonds, J. & Karp, R.M. (1972). "Theoretical improvements in
//     algorithmic efficiency for network flow problems"
// =============================================================================

// EdmondsKarpResult contains the outcome of a max-flow computation.
type EdmondsKarpResult struct {
	// MaxFlow is the maximum flow value computed.
	MaxFlow float64

	// Iterations is the number of augmenting paths found.
	Iterations int

	// Paths contains the augmenting paths if ReturnPaths was enabled.
	Paths []PathWithFlow

	// Canceled indicates the operation was canceled via context.
	Canceled bool
}

// EdmondsKarp computes the maximum flow from source to sink.
// The graph is modified in place. Convenience wrapper without context.
func EdmondsKarp(g *graph.ResidualGraph, source, sink int64, options *Options) *EdmondsKarpResult {
	return EdmondsKarpWithContext(context.Background(), g, source, sink, options)
}

// EdmondsKarpWithContext computes the maximum flow with cancellation
// support. Cancellation is checked every 100 iterations; on cancel the
// partial flow found so far is returned with Canceled set.
func EdmondsKarpWithContext(ctx context.Context, g *graph.ResidualGraph, source, sink int64, options *Options) *EdmondsKarpResult {
	if options == nil {
		options = DefaultOptions()
	}

	maxFlow := 0.0
	iterations := 0
	var paths []PathWithFlow

	// BFS scratch state is reused across iterations via the pool
	pool := graph.GetPool()
	parent := pool.GetInt64Map()
	visited := pool.GetBoolMap()
	defer func() {
		pool.PutInt64Map(parent)
		pool.PutBoolMap(visited)
	}()

	const checkInterval = 100

	for options.MaxIterations <= 0 || iterations < options.MaxIterations {
		if iterations%checkInterval == 0 {
			select {
			case <-ctx.Done():
				return &EdmondsKarpResult{
					MaxFlow:    maxFlow,
					Iterations: iterations,
					Paths:      paths,
					Canceled:   true,
				}
			default:
			}
		}

		bfsResult := graph.BFSInto(g, source, sink, parent, visited)
		if !bfsResult.Found {
			break
		}

		path := graph.ReconstructPath(g, bfsResult.Parent, source, sink)
		if len(path) == 0 {
			break
		}

		pathFlow := graph.MinCapacityOnPath(g, path)
		if pathFlow <= options.Epsilon {
			break
		}

		graph.AugmentPath(g, path, pathFlow)

		maxFlow += pathFlow
		iterations++

		if options.ReturnPaths {
			paths = append(paths, PathWithFlow{NodeIDs: graph.PathNodes(g, path), Flow: pathFlow})
		}
	}

	return &EdmondsKarpResult{
		MaxFlow:    maxFlow,
		Iterations: iterations,
		Paths:      paths,
	}
}
