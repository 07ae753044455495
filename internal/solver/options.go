// Package solver implements the two-stage flow computation used for
// evacuation planning: Edmonds-Karp maximum flow followed by successive
// shortest paths to route exactly that flow at minimum total travel time.
//
// # Thread Safety
//
// Solver functions are NOT thread-safe. Each goroutine must work with
// its own residual graph; use ResidualGraph.Clone().
//
// # Determinism
//
// All algorithms iterate nodes and edges in a fixed order, so the same
// input graph always yields the same flow assignment.
package solver

import (
	"errors"
	"fmt"
	"time"

	"evacuation/internal/graph"
)

// =============================================================================
// Error Definitions
// =============================================================================

var (
	// ErrNilGraph indicates that a nil graph was passed to a solver function.
	ErrNilGraph = errors.New("graph is nil")

	// ErrSourceNotFound indicates that the source node does not exist in the graph.
	ErrSourceNotFound = errors.New("source node not in graph")

	// ErrSinkNotFound indicates that the sink node does not exist in the graph.
	ErrSinkNotFound = errors.New("sink node not in graph")

	// ErrSourceEqualSink indicates that source and sink are the same node.
	ErrSourceEqualSink = errors.New("source equals sink")

	// ErrContextCanceled indicates that the operation was canceled via context.
	ErrContextCanceled = errors.New("context canceled")
)

// =============================================================================
// Options
// =============================================================================

// Options configures the flow algorithms. Zero values are safe:
// DefaultOptions() is applied when nil is passed.
type Options struct {
	// Epsilon is the tolerance for floating-point comparisons.
	Epsilon float64

	// MaxIterations limits the number of augmenting path iterations.
	// Zero or negative means unlimited.
	MaxIterations int

	// Timeout sets the maximum duration for a solve.
	// Zero relies on the caller's context only.
	Timeout time.Duration

	// ReturnPaths collects individual augmenting paths for diagnostics.
	ReturnPaths bool
}

// DefaultOptions returns options suitable for building-sized graphs.
func DefaultOptions() *Options {
	return &Options{
		Epsilon:       graph.Epsilon,
		MaxIterations: 0,
		Timeout:       30 * time.Second,
	}
}

// WithTimeout sets the timeout and returns the options for chaining.
func (o *Options) WithTimeout(timeout time.Duration) *Options {
	o.Timeout = timeout
	return o
}

// WithMaxIterations sets the iteration limit and returns the options for chaining.
func (o *Options) WithMaxIterations(n int) *Options {
	o.MaxIterations = n
	return o
}

// WithReturnPaths enables path collection and returns the options for chaining.
func (o *Options) WithReturnPaths(v bool) *Options {
	o.ReturnPaths = v
	return o
}

// PathWithFlow is an augmenting path and the flow pushed along it.
type PathWithFlow struct {
	NodeIDs []int64
	Flow    float64
}

// =============================================================================
// Validation
// =============================================================================

// validateGraph checks the graph and endpoint nodes before solving.
// The returned error wraps one of the standard errors for errors.Is.
func validateGraph(g *graph.ResidualGraph, source, sink int64) error {
	if g == nil {
		return ErrNilGraph
	}
	if !g.Nodes[source] {
		return fmt.Errorf("%w: %d", ErrSourceNotFound, source)
	}
	if !g.Nodes[sink] {
		return fmt.Errorf("%w: %d", ErrSinkNotFound, sink)
	}
	if source == sink {
		return ErrSourceEqualSink
	}
	return nil
}
