package graph

import "testing"

func TestGraphPool_GetGraphIsCleared(t *testing.T) {
	pool := NewGraphPool()

	g := pool.GetGraph()
	g.AddEdgeWithReverse(0, 1, 10, 2)
	pool.PutGraph(g)

	reused := pool.GetGraph()
	if reused.NodeCount() != 0 || reused.EdgeCount() != 0 {
		t.Errorf("pooled graph not cleared: %d nodes, %d edges",
			reused.NodeCount(), reused.EdgeCount())
	}
}

func TestGraphPool_MapsCleared(t *testing.T) {
	pool := NewGraphPool()

	m := pool.GetInt64Map()
	m[1] = 2
	pool.PutInt64Map(m)
	if got := pool.GetInt64Map(); len(got) != 0 {
		t.Errorf("pooled int64 map not cleared: %v", got)
	}

	b := pool.GetBoolMap()
	b[1] = true
	pool.PutBoolMap(b)
	if got := pool.GetBoolMap(); len(got) != 0 {
		t.Errorf("pooled bool map not cleared: %v", got)
	}

	f := pool.GetFloatMap()
	f[1] = 1.5
	pool.PutFloatMap(f)
	if got := pool.GetFloatMap(); len(got) != 0 {
		t.Errorf("pooled float map not cleared: %v", got)
	}
}

func TestCloneInto_ReusesTarget(t *testing.T) {
	src := NewResidualGraph()
	id := src.AddEdgeWithReverse(0, 1, 5, 10)
	src.AddEdgeWithReverse(1, 2, 3, 20)

	dst := NewResidualGraph()
	dst.AddEdgeWithReverse(7, 8, 99, 1)

	src.CloneInto(dst)

	if dst.NodeCount() != 3 {
		t.Fatalf("NodeCount() = %d, want 3", dst.NodeCount())
	}
	if _, ok := dst.ForwardEdgeID(7, 8); ok {
		t.Error("stale edge survived CloneInto")
	}
	if dst.EdgeCount() != src.EdgeCount() {
		t.Fatalf("EdgeCount() = %d, want %d", dst.EdgeCount(), src.EdgeCount())
	}

	// Arc ids are preserved and the copy is independent of the source
	dst.PushFlow(id, 5)
	if src.GetFlowOnEdge(0, 1) != 0 {
		t.Errorf("source flow changed to %g after modifying clone", src.GetFlowOnEdge(0, 1))
	}
	if dst.GetFlowOnEdge(0, 1) != 5 {
		t.Errorf("clone flow = %g, want 5", dst.GetFlowOnEdge(0, 1))
	}
}
