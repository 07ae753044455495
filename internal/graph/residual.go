// Package graph provides the residual-network representation used by the
// evacuation flow solvers.
package graph

import (
	"sort"

	"evacuation/pkg/domain"
)

// =============================================================================
// Constants
// =============================================================================

// Epsilon is the tolerance for floating-point comparisons.
// Values smaller than Epsilon are considered zero.
const Epsilon = domain.Epsilon

// Infinity represents an unreachable distance or unlimited capacity.
const Infinity = domain.Infinity

// =============================================================================
// Residual Edge
// =============================================================================

// ResidualEdge is a directed arc in the residual network.
//
// Each original corridor (u, v) with capacity c and travel-time cost w is
// represented by a pair of arcs linked through Reverse:
//   - Forward arc (u, v) with capacity c and cost w
//   - Backward arc (v, u) with capacity 0 and cost -w
//
// When flow f is pushed along an arc its capacity drops by f and the
// companion's capacity grows by f, which lets algorithms undo flow
// decisions. Antiparallel corridors (u, v) and (v, u) produce two
// independent arc pairs; arcs are never merged or shared between
// corridors.
type ResidualEdge struct {
	// From and To are the endpoint node IDs.
	From int64
	To   int64

	// Capacity is the current residual capacity.
	// For forward arcs: OriginalCapacity - Flow.
	// For backward arcs: the flow on the companion forward arc.
	Capacity float64

	// Cost is the cost per unit of flow.
	// For backward arcs this is the negative of the forward cost.
	Cost float64

	// Flow is the amount of flow currently on this arc.
	// Always zero on backward arcs: cancellation is recorded on the
	// companion forward arc.
	Flow float64

	// OriginalCapacity is the initial capacity, kept for Reset.
	OriginalCapacity float64

	// IsReverse marks automatically created backward arcs.
	IsReverse bool

	// Reverse is the arena index of the companion arc, -1 for arcs
	// added without one.
	Reverse int
}

// HasCapacity returns true if the arc has positive residual capacity.
func (e *ResidualEdge) HasCapacity() bool {
	return e.Capacity > Epsilon
}

// =============================================================================
// Residual Graph
// =============================================================================

// ResidualGraph is the core data structure for the flow solvers.
//
// Arcs live in a single arena indexed by integer arc id; Adjacency
// lists the outgoing arc ids per node in insertion order. Keying arcs
// by id instead of by endpoint pair keeps antiparallel corridors
// (u, v) and (v, u) as four distinct arcs, each with its own residual
// companion found through Reverse.
//
// Flow algorithms can find different valid solutions depending on
// traversal order, so all iteration must go through OutgoingEdges and
// SortedNodes to keep results reproducible.
//
// ResidualGraph is NOT thread-safe. Clone the graph for each goroutine.
type ResidualGraph struct {
	// Nodes contains all node IDs in the graph (used as a set).
	Nodes map[int64]bool

	// Edges is the arc arena; the slice index is the arc id.
	Edges []ResidualEdge

	// Adjacency lists outgoing arc ids per node in insertion order.
	Adjacency map[int64][]int

	sortedNodes      []int64
	sortedNodesDirty bool
}

// NewResidualGraph creates a new empty residual graph.
func NewResidualGraph() *ResidualGraph {
	return &ResidualGraph{
		Nodes:            make(map[int64]bool),
		Adjacency:        make(map[int64][]int),
		sortedNodesDirty: true,
	}
}

// =============================================================================
// Graph Modification
// =============================================================================

// Clear removes all nodes and arcs so the graph can be reused.
func (rg *ResidualGraph) Clear() {
	clear(rg.Nodes)
	rg.Edges = rg.Edges[:0]
	for k := range rg.Adjacency {
		delete(rg.Adjacency, k)
	}
	rg.sortedNodes = rg.sortedNodes[:0]
	rg.sortedNodesDirty = true
}

// AddNode adds a node to the graph. No-op if it already exists.
func (rg *ResidualGraph) AddNode(id int64) {
	if !rg.Nodes[id] {
		rg.Nodes[id] = true
		rg.sortedNodesDirty = true
	}
}

// addArc appends an arc to the arena and registers it in the adjacency
// list of its tail node. Returns the new arc id.
func (rg *ResidualGraph) addArc(e ResidualEdge) int {
	rg.AddNode(e.From)
	rg.AddNode(e.To)

	id := len(rg.Edges)
	rg.Edges = append(rg.Edges, e)
	rg.Adjacency[e.From] = append(rg.Adjacency[e.From], id)
	return id
}

// AddEdge appends a standalone forward arc with no residual companion
// and returns its id. Flow pushed along such an arc cannot be undone;
// flow networks should use AddEdgeWithReverse instead.
func (rg *ResidualGraph) AddEdge(from, to int64, capacity, cost float64) int {
	return rg.addArc(ResidualEdge{
		From:             from,
		To:               to,
		Capacity:         capacity,
		Cost:             cost,
		OriginalCapacity: capacity,
		Reverse:          -1,
	})
}

// AddEdgeWithReverse appends the forward arc and its zero-capacity
// backward companion, cross-linked through Reverse. This is the
// standard way to build a flow network; each call creates a fresh arc
// pair, so parallel and antiparallel corridors stay independent.
// Returns the forward arc id.
func (rg *ResidualGraph) AddEdgeWithReverse(from, to int64, capacity, cost float64) int {
	fwd := rg.addArc(ResidualEdge{
		From:             from,
		To:               to,
		Capacity:         capacity,
		Cost:             cost,
		OriginalCapacity: capacity,
	})
	back := rg.addArc(ResidualEdge{
		From:      to,
		To:        from,
		Cost:      -cost,
		IsReverse: true,
	})
	rg.Edges[fwd].Reverse = back
	rg.Edges[back].Reverse = fwd
	return fwd
}

// =============================================================================
// Access
// =============================================================================

// Edge returns the arc with the given id. The pointer is valid until
// the next arc is added.
func (rg *ResidualGraph) Edge(id int) *ResidualEdge {
	return &rg.Edges[id]
}

// OutgoingEdges returns the outgoing arc ids of a node in deterministic
// insertion order. Algorithms must use this instead of scanning the
// arena so neighbor order matches construction order.
func (rg *ResidualGraph) OutgoingEdges(node int64) []int {
	return rg.Adjacency[node]
}

// ForwardEdgeID returns the id of the first non-reverse arc from 'from'
// to 'to'. ok is false when no such arc exists.
func (rg *ResidualGraph) ForwardEdgeID(from, to int64) (int, bool) {
	for _, id := range rg.Adjacency[from] {
		e := &rg.Edges[id]
		if !e.IsReverse && e.To == to {
			return id, true
		}
	}
	return 0, false
}

// SortedNodes returns node IDs in ascending order. The result is cached
// and invalidated when nodes are added.
func (rg *ResidualGraph) SortedNodes() []int64 {
	if rg.sortedNodesDirty || len(rg.sortedNodes) != len(rg.Nodes) {
		rg.sortedNodes = rg.sortedNodes[:0]
		for node := range rg.Nodes {
			rg.sortedNodes = append(rg.sortedNodes, node)
		}
		sort.Slice(rg.sortedNodes, func(i, j int) bool {
			return rg.sortedNodes[i] < rg.sortedNodes[j]
		})
		rg.sortedNodesDirty = false
	}
	return rg.sortedNodes
}

// NodeCount returns the number of nodes in the graph.
func (rg *ResidualGraph) NodeCount() int {
	return len(rg.Nodes)
}

// EdgeCount returns the total number of arcs, backward arcs included.
func (rg *ResidualGraph) EdgeCount() int {
	return len(rg.Edges)
}

// =============================================================================
// Flow Operations
// =============================================================================

// PushFlow pushes flow along the arc with the given id: decreases its
// residual capacity and increases the companion's.
//
// Pushing along a backward arc cancels flow on its forward companion.
func (rg *ResidualGraph) PushFlow(id int, flow float64) {
	e := &rg.Edges[id]
	e.Capacity -= flow

	if e.Reverse >= 0 {
		rg.Edges[e.Reverse].Capacity += flow
	}

	if e.IsReverse {
		// Cancellation: refund flow on the forward companion
		if e.Reverse >= 0 {
			rg.Edges[e.Reverse].Flow -= flow
		}
		return
	}
	e.Flow += flow
}

// GetFlowOnEdge returns the total flow carried from 'from' to 'to',
// summed over parallel forward arcs. 0 when no such arc exists.
func (rg *ResidualGraph) GetFlowOnEdge(from, to int64) float64 {
	total := 0.0
	for _, id := range rg.Adjacency[from] {
		e := &rg.Edges[id]
		if !e.IsReverse && e.To == to {
			total += e.Flow
		}
	}
	return total
}

// GetTotalFlow computes the flow leaving the source node.
func (rg *ResidualGraph) GetTotalFlow(source int64) float64 {
	total := 0.0
	for _, id := range rg.Adjacency[source] {
		e := &rg.Edges[id]
		if !e.IsReverse && e.Flow > 0 {
			total += e.Flow
		}
	}
	return total
}

// GetTotalCost computes the total cost of all flow in the graph.
// Deterministic due to arena iteration in arc-id order.
func (rg *ResidualGraph) GetTotalCost() float64 {
	total := 0.0
	for i := range rg.Edges {
		e := &rg.Edges[i]
		if !e.IsReverse && e.Flow > 0 {
			total += e.Flow * e.Cost
		}
	}
	return total
}

// =============================================================================
// Graph Operations
// =============================================================================

// Clone creates a deep, independent copy of the graph.
func (rg *ResidualGraph) Clone() *ResidualGraph {
	clone := NewResidualGraph()
	rg.CloneInto(clone)
	return clone
}

// CloneInto copies the graph into dst, typically a pooled instance.
// dst is cleared first. Arc ids are preserved.
func (rg *ResidualGraph) CloneInto(clone *ResidualGraph) {
	clone.Clear()

	for node := range rg.Nodes {
		clone.Nodes[node] = true
	}
	clone.Edges = append(clone.Edges, rg.Edges...)
	for node, ids := range rg.Adjacency {
		clone.Adjacency[node] = append([]int(nil), ids...)
	}
}

// Reset clears all flow and restores original capacities so the same
// structure can be solved again.
func (rg *ResidualGraph) Reset() {
	for i := range rg.Edges {
		e := &rg.Edges[i]
		if e.IsReverse {
			e.Capacity = 0
		} else {
			e.Capacity = e.OriginalCapacity
		}
		e.Flow = 0
	}
}

// ForwardEdges returns the ids of all non-reverse arcs in arc-id order.
func (rg *ResidualGraph) ForwardEdges() []int {
	var result []int
	for i := range rg.Edges {
		if !rg.Edges[i].IsReverse {
			result = append(result, i)
		}
	}
	return result
}
