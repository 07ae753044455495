package graph

import "testing"

func buildChain(t *testing.T) *ResidualGraph {
	t.Helper()
	rg := NewResidualGraph()
	rg.AddEdgeWithReverse(1, 2, 5, 1)
	rg.AddEdgeWithReverse(2, 3, 5, 1)
	rg.AddEdgeWithReverse(3, 4, 5, 1)
	return rg
}

// saturate fills the forward arc between two nodes to capacity.
func saturate(t *testing.T, rg *ResidualGraph, from, to int64) {
	t.Helper()
	id, ok := rg.ForwardEdgeID(from, to)
	if !ok {
		t.Fatalf("no forward arc %d->%d", from, to)
	}
	rg.PushFlow(id, rg.Edge(id).Capacity)
}

func TestBFS_FindsPath(t *testing.T) {
	rg := buildChain(t)

	result := BFS(rg, 1, 4)
	if !result.Found {
		t.Fatal("expected path to be found")
	}

	nodes := PathNodes(rg, ReconstructPath(rg, result.Parent, 1, 4))
	want := []int64{1, 2, 3, 4}
	if len(nodes) != len(want) {
		t.Fatalf("expected path %v, got %v", want, nodes)
	}
	for i := range want {
		if nodes[i] != want[i] {
			t.Fatalf("expected path %v, got %v", want, nodes)
		}
	}
}

func TestBFS_NoPathWhenSaturated(t *testing.T) {
	rg := buildChain(t)
	saturate(t, rg, 2, 3)

	result := BFS(rg, 1, 4)
	if result.Found {
		t.Error("expected no path through saturated edge")
	}
}

func TestBFS_PrefersShorterPath(t *testing.T) {
	rg := NewResidualGraph()
	// Direct edge and a detour
	rg.AddEdgeWithReverse(1, 4, 1, 1)
	rg.AddEdgeWithReverse(1, 2, 1, 1)
	rg.AddEdgeWithReverse(2, 3, 1, 1)
	rg.AddEdgeWithReverse(3, 4, 1, 1)

	result := BFS(rg, 1, 4)
	path := ReconstructPath(rg, result.Parent, 1, 4)
	if len(path) != 1 {
		t.Errorf("expected the direct single-arc path, got %v", PathNodes(rg, path))
	}
}

func TestBFS_MissingNodes(t *testing.T) {
	rg := buildChain(t)
	if BFS(rg, 99, 4).Found {
		t.Error("expected no path from unknown source")
	}
	if BFS(rg, 1, 99).Found {
		t.Error("expected no path to unknown sink")
	}
}

func TestReachableFrom(t *testing.T) {
	rg := buildChain(t)
	saturate(t, rg, 2, 3)

	reachable := ReachableFrom(rg, 1)
	if !reachable[1] || !reachable[2] {
		t.Error("expected 1 and 2 reachable")
	}
	// 3 is reachable only through the saturated edge
	if reachable[3] || reachable[4] {
		t.Errorf("expected 3 and 4 unreachable, got %v", reachable)
	}
}

func TestQueue(t *testing.T) {
	q := NewQueue()
	if !q.IsEmpty() {
		t.Error("new queue should be empty")
	}

	q.Enqueue(1)
	q.Enqueue(2)

	if n, ok := q.Dequeue(); !ok || n != 1 {
		t.Errorf("expected 1, got %d (ok=%v)", n, ok)
	}
	if n, ok := q.Dequeue(); !ok || n != 2 {
		t.Errorf("expected 2, got %d (ok=%v)", n, ok)
	}
	if _, ok := q.Dequeue(); ok {
		t.Error("expected empty dequeue to fail")
	}
}
