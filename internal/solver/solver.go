package solver

import (
	"context"
	"time"

	"evacuation/internal/graph"
	"evacuation/pkg/apperror"
)

// =============================================================================
// Two-Stage Solve
// =============================================================================
//
// Evacuation planning is lexicographic: first maximize the number of
// people per unit time that can leave the building, then among all
// flows of that value pick the one with minimum total travel time.
//
// Stage 1 runs Edmonds-Karp on a clone of the network to learn the
// maximum flow value. Stage 2 runs successive shortest paths on the
// pristine network with that value as the exact target. Stage 2 must
// reach the target: the max-flow min-cut certificate guarantees the
// capacity exists, so falling short indicates a solver defect and is
// reported as a critical error rather than silently accepted.
// =============================================================================

// Result contains the outcome of a two-stage solve.
type Result struct {
	// MaxFlow is the maximum flow value found in stage 1 and routed
	// in stage 2.
	MaxFlow float64

	// TotalCost is the total travel-time cost of the routed flow.
	TotalCost float64

	// MaxFlowIterations is the number of augmenting paths in stage 1.
	MaxFlowIterations int

	// MinCostIterations is the number of augmenting paths in stage 2.
	MinCostIterations int

	// Cut is the minimum cut certificate from stage 1.
	Cut *MinCutResult

	// Stage1Duration and Stage2Duration are wall-clock stage timings.
	Stage1Duration time.Duration
	Stage2Duration time.Duration
}

// Solve runs the two-stage computation on g. After a successful return
// g carries the min-cost flow of maximum value; read it off with
// GetFlowOnEdge or the converter.
//
// Returns an error with code InfeasibleTargetFlow when stage 2 cannot
// route the stage-1 value, and SolverError when the min-cut certificate
// does not match the computed flow.
func Solve(ctx context.Context, g *graph.ResidualGraph, source, sink int64, options *Options) (*Result, error) {
	if options == nil {
		options = DefaultOptions()
	}

	if err := validateGraph(g, source, sink); err != nil {
		return nil, apperror.New(apperror.CodeInvalidArgument, err.Error()).WithCause(err)
	}

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	// Stage 1: maximum flow on a pooled scratch copy.
	stage1Start := time.Now()
	pool := graph.GetPool()
	scratch := pool.GetGraph()
	g.CloneInto(scratch)
	defer pool.PutGraph(scratch)

	ekResult := EdmondsKarpWithContext(ctx, scratch, source, sink, options)
	if ekResult.Canceled {
		return nil, apperror.New(apperror.CodeUnavailable, "max flow computation canceled").
			WithCause(ErrContextCanceled)
	}

	cut, ok := VerifyMaxFlow(scratch, source, ekResult.MaxFlow)
	if !ok {
		return nil, apperror.New(apperror.CodeSolverError, "min-cut capacity does not match max flow").
			WithDetails(map[string]any{
				"max_flow":     ekResult.MaxFlow,
				"cut_capacity": cut.Capacity,
			})
	}
	stage1Duration := time.Since(stage1Start)

	// Stage 2: min-cost flow to exactly the stage-1 value.
	stage2Start := time.Now()
	mcResult := MinCostFlowWithContext(ctx, g, source, sink, ekResult.MaxFlow, options)
	if mcResult.Canceled {
		return nil, apperror.New(apperror.CodeUnavailable, "min-cost routing canceled").
			WithCause(ErrContextCanceled)
	}

	if mcResult.Flow < ekResult.MaxFlow-options.Epsilon {
		return nil, apperror.NewInfeasibleTargetFlow(ekResult.MaxFlow, mcResult.Flow)
	}

	return &Result{
		MaxFlow:           ekResult.MaxFlow,
		TotalCost:         mcResult.Cost,
		MaxFlowIterations: ekResult.Iterations,
		MinCostIterations: mcResult.Iterations,
		Cut:               cut,
		Stage1Duration:    stage1Duration,
		Stage2Duration:    time.Since(stage2Start),
	}, nil
}
