// Package converter translates between the building-domain graph with
// string node IDs and the integer-indexed residual network the flow
// algorithms operate on.
package converter

import (
	"evacuation/internal/graph"
	"evacuation/pkg/domain"
)

// NodeMapping is the bidirectional mapping between domain node IDs and
// the dense int64 indices used by the residual graph.
//
// Indices are assigned from the sorted node list, so the same building
// always produces the same mapping and the solvers stay deterministic.
type NodeMapping struct {
	toIndex map[string]int64
	toID    []string
}

// NewNodeMapping builds the mapping for all nodes of a domain graph.
func NewNodeMapping(g *domain.Graph) *NodeMapping {
	nodes := g.Nodes()
	m := &NodeMapping{
		toIndex: make(map[string]int64, len(nodes)),
		toID:    make([]string, 0, len(nodes)),
	}
	for i, node := range nodes {
		m.toIndex[node.ID] = int64(i)
		m.toID = append(m.toID, node.ID)
	}
	return m
}

// Index returns the int64 index of a node ID. ok is false for unknown IDs.
func (m *NodeMapping) Index(id string) (int64, bool) {
	idx, ok := m.toIndex[id]
	return idx, ok
}

// ID returns the node ID for an index, or "" when out of range.
func (m *NodeMapping) ID(index int64) string {
	if index < 0 || index >= int64(len(m.toID)) {
		return ""
	}
	return m.toID[index]
}

// Size returns the number of mapped nodes.
func (m *NodeMapping) Size() int {
	return len(m.toID)
}

// ToResidualGraph converts a domain graph into a residual network.
//
// Every corridor becomes a forward edge with its capacity and travel
// time as cost, plus the zero-capacity backward companion. Disabled
// corridors (capacity 0) are included so the flow extraction can still
// report them with zero flow.
func ToResidualGraph(g *domain.Graph) (*graph.ResidualGraph, *NodeMapping) {
	mapping := NewNodeMapping(g)
	rg := graph.NewResidualGraph()

	for _, node := range g.Nodes() {
		idx, _ := mapping.Index(node.ID)
		rg.AddNode(idx)
	}

	for _, corridor := range g.Corridors() {
		from, _ := mapping.Index(corridor.From)
		to, _ := mapping.Index(corridor.To)
		rg.AddEdgeWithReverse(from, to, corridor.Capacity, corridor.TravelTime)
	}

	return rg, mapping
}

// ExtractAssignment reads the flow off a solved residual network back
// into a per-corridor assignment keyed by domain corridor.
//
// Tiny negative residue from floating-point cancellation is clamped
// to zero so the assignment always passes capacity checks.
func ExtractAssignment(rg *graph.ResidualGraph, mapping *NodeMapping, g *domain.Graph) domain.FlowAssignment {
	fa := domain.NewZeroAssignment(g)

	for _, corridor := range g.Corridors() {
		from, ok := mapping.Index(corridor.From)
		if !ok {
			continue
		}
		to, ok := mapping.Index(corridor.To)
		if !ok {
			continue
		}

		flow := rg.GetFlowOnEdge(from, to)
		if flow < 0 && flow > -graph.Epsilon {
			flow = 0
		}
		fa[corridor.Key()] = flow
	}

	return fa
}
