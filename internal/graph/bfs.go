package graph

// =============================================================================
// Queue
// =============================================================================

// Queue is a simple FIFO queue of node IDs backed by a slice with a
// moving head index, avoiding reallocation on Dequeue.
type Queue struct {
	items []int64
	head  int
}

// NewQueue creates an empty queue with a small preallocated buffer.
func NewQueue() *Queue {
	return &Queue{items: make([]int64, 0, 64)}
}

// Enqueue appends a node to the back of the queue.
func (q *Queue) Enqueue(node int64) {
	q.items = append(q.items, node)
}

// Dequeue removes and returns the front node. ok is false when empty.
func (q *Queue) Dequeue() (node int64, ok bool) {
	if q.head >= len(q.items) {
		return 0, false
	}
	node = q.items[q.head]
	q.head++
	return node, true
}

// IsEmpty reports whether the queue has no remaining items.
func (q *Queue) IsEmpty() bool {
	return q.head >= len(q.items)
}

// Reset empties the queue, keeping the underlying buffer.
func (q *Queue) Reset() {
	q.items = q.items[:0]
	q.head = 0
}

// =============================================================================
// Breadth-First Search
// =============================================================================

// BFSResult holds the outcome of a breadth-first search.
type BFSResult struct {
	// Found is true if the sink was reached from the source.
	Found bool

	// Parent maps each visited node to the arc id used to reach it.
	// Used to reconstruct the augmenting path; storing arc ids instead
	// of predecessor nodes keeps antiparallel arcs distinguishable.
	Parent map[int64]int64

	// Visited contains all nodes reachable from the source through
	// edges with positive residual capacity.
	Visited map[int64]bool
}

// BFS finds the shortest augmenting path (by edge count) from source to
// sink through edges with positive residual capacity.
//
// Iteration uses the adjacency lists, so for a fixed graph construction
// order the search always explores neighbors in the same order and
// Edmonds-Karp produces identical flows across runs.
func BFS(rg *ResidualGraph, source, sink int64) *BFSResult {
	return BFSInto(rg, source, sink, make(map[int64]int64), make(map[int64]bool))
}

// BFSInto runs BFS with caller-provided scratch maps, typically taken
// from the GraphPool when the result does not outlive the caller. Both
// maps are cleared before use.
func BFSInto(rg *ResidualGraph, source, sink int64, parent map[int64]int64, visited map[int64]bool) *BFSResult {
	clear(parent)
	clear(visited)

	result := &BFSResult{
		Parent:  parent,
		Visited: visited,
	}

	if !rg.Nodes[source] || !rg.Nodes[sink] {
		return result
	}

	queue := NewQueue()
	queue.Enqueue(source)
	result.Visited[source] = true

	for !queue.IsEmpty() {
		current, _ := queue.Dequeue()

		if current == sink {
			result.Found = true
			return result
		}

		for _, id := range rg.OutgoingEdges(current) {
			edge := rg.Edge(id)
			if !edge.HasCapacity() || result.Visited[edge.To] {
				continue
			}
			result.Visited[edge.To] = true
			result.Parent[edge.To] = int64(id)
			queue.Enqueue(edge.To)
		}
	}

	return result
}

// ReachableFrom returns the set of nodes reachable from start through
// edges with positive residual capacity. Used for min-cut extraction
// after max flow: the cut separates this set from the rest.
func ReachableFrom(rg *ResidualGraph, start int64) map[int64]bool {
	visited := make(map[int64]bool)
	if !rg.Nodes[start] {
		return visited
	}

	queue := NewQueue()
	queue.Enqueue(start)
	visited[start] = true

	for !queue.IsEmpty() {
		current, _ := queue.Dequeue()
		for _, id := range rg.OutgoingEdges(current) {
			edge := rg.Edge(id)
			if edge.HasCapacity() && !visited[edge.To] {
				visited[edge.To] = true
				queue.Enqueue(edge.To)
			}
		}
	}

	return visited
}
