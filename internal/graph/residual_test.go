package graph

import (
	"math"
	"testing"
)

func TestAddEdgeWithReverse(t *testing.T) {
	rg := NewResidualGraph()
	id := rg.AddEdgeWithReverse(1, 2, 10, 3)

	fwd := rg.Edge(id)
	if fwd.From != 1 || fwd.To != 2 || fwd.Capacity != 10 || fwd.Cost != 3 || fwd.IsReverse {
		t.Errorf("unexpected forward arc: %+v", fwd)
	}
	if fwd.Reverse < 0 {
		t.Fatal("forward arc has no companion")
	}

	back := rg.Edge(fwd.Reverse)
	if back.From != 2 || back.To != 1 || back.Capacity != 0 || back.Cost != -3 || !back.IsReverse {
		t.Errorf("unexpected backward arc: %+v", back)
	}
	if back.Reverse != id {
		t.Errorf("companion link not symmetric: %d", back.Reverse)
	}
}

func TestAddEdgeWithReverse_ParallelArcsStayIndependent(t *testing.T) {
	rg := NewResidualGraph()
	first := rg.AddEdgeWithReverse(1, 2, 10, 3)
	second := rg.AddEdgeWithReverse(1, 2, 5, 3)

	if first == second {
		t.Fatal("parallel corridors share an arc")
	}
	if rg.EdgeCount() != 4 {
		t.Fatalf("expected 4 arcs, got %d", rg.EdgeCount())
	}
	if rg.Edge(first).Capacity != 10 || rg.Edge(second).Capacity != 5 {
		t.Errorf("parallel capacities merged: %f and %f",
			rg.Edge(first).Capacity, rg.Edge(second).Capacity)
	}

	rg.PushFlow(first, 4)
	rg.PushFlow(second, 2)
	if got := rg.GetFlowOnEdge(1, 2); got != 6 {
		t.Errorf("expected summed flow 6 over parallel arcs, got %f", got)
	}
}

func TestAddEdgeWithReverse_AntiparallelCorridors(t *testing.T) {
	// A two-way corridor is two independent arc pairs; pushing flow on
	// one direction must not create capacity on the other.
	rg := NewResidualGraph()
	ab := rg.AddEdgeWithReverse(1, 2, 10, 3)
	ba := rg.AddEdgeWithReverse(2, 1, 7, 4)

	if rg.EdgeCount() != 4 {
		t.Fatalf("expected 4 arcs, got %d", rg.EdgeCount())
	}
	if rg.Edge(ba).IsReverse || rg.Edge(ba).Capacity != 7 || rg.Edge(ba).Cost != 4 {
		t.Errorf("opposite corridor corrupted: %+v", rg.Edge(ba))
	}

	rg.PushFlow(ab, 4)

	if got := rg.Edge(ba).Capacity; got != 7 {
		t.Errorf("opposite corridor capacity changed to %f", got)
	}
	if got := rg.Edge(rg.Edge(ab).Reverse).Capacity; got != 4 {
		t.Errorf("expected residual capacity 4 on the companion, got %f", got)
	}
	if got := rg.GetFlowOnEdge(2, 1); got != 0 {
		t.Errorf("flow appeared on the opposite corridor: %f", got)
	}

	// Cancel through the companion, not through the opposite corridor
	rg.PushFlow(rg.Edge(ab).Reverse, 3)
	if got := rg.Edge(ab).Flow; got != 1 {
		t.Errorf("expected flow 1 after cancellation, got %f", got)
	}
	if got := rg.Edge(ba).Capacity; got != 7 {
		t.Errorf("cancellation leaked into the opposite corridor: %f", got)
	}
}

func TestPushFlow(t *testing.T) {
	rg := NewResidualGraph()
	id := rg.AddEdgeWithReverse(1, 2, 10, 3)

	rg.PushFlow(id, 4)

	fwd := rg.Edge(id)
	if fwd.Capacity != 6 || fwd.Flow != 4 {
		t.Errorf("unexpected forward state: cap=%f flow=%f", fwd.Capacity, fwd.Flow)
	}
	back := rg.Edge(fwd.Reverse)
	if back.Capacity != 4 {
		t.Errorf("expected backward capacity 4, got %f", back.Capacity)
	}
	if back.Flow != 0 {
		t.Errorf("backward arc carries flow %f", back.Flow)
	}

	// Cancellation through the backward arc
	rg.PushFlow(fwd.Reverse, 3)
	if fwd.Flow != 1 || fwd.Capacity != 9 {
		t.Errorf("unexpected state after cancel: cap=%f flow=%f", fwd.Capacity, fwd.Flow)
	}
	if back.Capacity != 1 {
		t.Errorf("expected backward capacity 1, got %f", back.Capacity)
	}
}

func TestGetTotalFlowAndCost(t *testing.T) {
	rg := NewResidualGraph()
	a := rg.AddEdgeWithReverse(1, 2, 10, 2)
	b := rg.AddEdgeWithReverse(1, 3, 10, 5)
	c := rg.AddEdgeWithReverse(2, 4, 10, 2)
	d := rg.AddEdgeWithReverse(3, 4, 10, 5)

	rg.PushFlow(a, 4)
	rg.PushFlow(c, 4)
	rg.PushFlow(b, 2)
	rg.PushFlow(d, 2)

	if got := rg.GetTotalFlow(1); got != 6 {
		t.Errorf("expected total flow 6, got %f", got)
	}
	// 4*2 + 4*2 + 2*5 + 2*5 = 36
	if got := rg.GetTotalCost(); math.Abs(got-36) > Epsilon {
		t.Errorf("expected total cost 36, got %f", got)
	}
}

func TestForwardEdgeID(t *testing.T) {
	rg := NewResidualGraph()
	id := rg.AddEdgeWithReverse(1, 2, 10, 3)

	got, ok := rg.ForwardEdgeID(1, 2)
	if !ok || got != id {
		t.Errorf("ForwardEdgeID(1,2) = %d, %v; want %d, true", got, ok, id)
	}
	// The backward companion does not count as a forward arc
	if _, ok := rg.ForwardEdgeID(2, 1); ok {
		t.Error("found a forward arc 2->1 where only a companion exists")
	}
}

func TestCloneIndependence(t *testing.T) {
	rg := NewResidualGraph()
	id := rg.AddEdgeWithReverse(1, 2, 10, 1)

	clone := rg.Clone()
	clone.PushFlow(id, 5)

	if rg.Edge(id).Flow != 0 {
		t.Error("clone modification leaked into original")
	}
	if clone.Edge(id).Flow != 5 {
		t.Error("clone did not record flow")
	}
}

func TestReset(t *testing.T) {
	rg := NewResidualGraph()
	id := rg.AddEdgeWithReverse(1, 2, 10, 1)
	rg.PushFlow(id, 7)

	rg.Reset()

	fwd := rg.Edge(id)
	if fwd.Capacity != 10 || fwd.Flow != 0 {
		t.Errorf("unexpected state after reset: %+v", fwd)
	}
	back := rg.Edge(fwd.Reverse)
	if back.Capacity != 0 {
		t.Errorf("expected backward capacity 0 after reset, got %f", back.Capacity)
	}
}

func TestSortedNodes(t *testing.T) {
	rg := NewResidualGraph()
	rg.AddNode(3)
	rg.AddNode(1)
	rg.AddNode(2)

	nodes := rg.SortedNodes()
	want := []int64{1, 2, 3}
	for i, n := range want {
		if nodes[i] != n {
			t.Fatalf("expected %v, got %v", want, nodes)
		}
	}

	rg.AddNode(0)
	nodes = rg.SortedNodes()
	if nodes[0] != 0 || len(nodes) != 4 {
		t.Errorf("cache not invalidated: %v", nodes)
	}
}
