package cache

import (
	"context"
	"testing"
	"time"

	"evacuation/pkg/domain"
)

func testGraph(t *testing.T, corridors []domain.CorridorSpec) *domain.Graph {
	t.Helper()

	g, err := domain.BuildGraph("test",
		[]domain.NodeSpec{
			{ID: "S", Role: domain.RoleEntrance},
			{ID: "A", Role: domain.RoleJunction},
			{ID: "T", Role: domain.RoleExit},
		},
		corridors,
		domain.BuildParams{WalkingSpeed: 1.0, StairPenalty: 5.0},
	)
	if err != nil {
		t.Fatalf("failed to build graph: %v", err)
	}
	return g
}

func TestGraphHash_Deterministic(t *testing.T) {
	corridors := []domain.CorridorSpec{
		{From: "S", To: "A", Capacity: 5, Length: 10},
		{From: "A", To: "T", Capacity: 4, Length: 10},
	}

	g1 := testGraph(t, corridors)
	// Те же коридоры в другом порядке
	g2 := testGraph(t, []domain.CorridorSpec{corridors[1], corridors[0]})

	h1 := GraphHash(g1)
	h2 := GraphHash(g2)
	if h1 != h2 {
		t.Errorf("hash depends on corridor order: %s != %s", h1, h2)
	}
	if h1 == "" {
		t.Error("expected non-empty hash")
	}
}

func TestGraphHash_CapacityChange(t *testing.T) {
	g := testGraph(t, []domain.CorridorSpec{
		{From: "S", To: "A", Capacity: 5, Length: 10},
		{From: "A", To: "T", Capacity: 4, Length: 10},
	})

	disabled, err := g.WithCorridorDisabled("S", "A")
	if err != nil {
		t.Fatalf("failed to disable corridor: %v", err)
	}

	if GraphHash(g) == GraphHash(disabled) {
		t.Error("expected different hashes for different capacities")
	}
}

func TestGraphHash_Nil(t *testing.T) {
	if GraphHash(nil) != "" {
		t.Error("expected empty hash for nil graph")
	}
}

func TestScenarioHash(t *testing.T) {
	a := []domain.Scenario{
		{Name: "baseline"},
		{Name: "closed", Disruptions: []domain.Disruption{{From: "A", To: "B"}}},
	}
	b := []domain.Scenario{
		{Name: "baseline"},
		{Name: "closed", Disruptions: []domain.Disruption{{From: "A", To: "C"}}},
	}

	if ScenarioHash(a) != ScenarioHash(a) {
		t.Error("expected stable hash")
	}
	if ScenarioHash(a) == ScenarioHash(b) {
		t.Error("expected different hashes for different disruptions")
	}
}

func TestPlanCache_RoundTrip(t *testing.T) {
	mem := NewMemoryCache(nil)
	defer mem.Close()

	pc := NewPlanCache(mem, time.Minute)
	ctx := context.Background()

	g := testGraph(t, []domain.CorridorSpec{
		{From: "S", To: "A", Capacity: 5, Length: 10},
		{From: "A", To: "T", Capacity: 4, Length: 10},
	})
	scenarios := []domain.Scenario{{Name: domain.BaselineScenario}}

	// Промах до записи
	_, hit, err := pc.Get(ctx, g, scenarios)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if hit {
		t.Error("expected cache miss")
	}

	result := &domain.PlanResult{
		RunID:    "run-1",
		Building: "test",
		Results: []domain.ScenarioResult{
			{Scenario: scenarios[0], FlowValue: 4, TotalTimeCost: 80},
		},
	}
	if err := pc.Set(ctx, g, scenarios, result, 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, hit, err := pc.Get(ctx, g, scenarios)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !hit {
		t.Fatal("expected cache hit")
	}
	if got.RunID != "run-1" || got.Results[0].FlowValue != 4 {
		t.Errorf("unexpected cached result: %+v", got)
	}

	// Инвалидация по графу
	if err := pc.Invalidate(ctx, g); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}
	_, hit, _ = pc.Get(ctx, g, scenarios)
	if hit {
		t.Error("expected miss after invalidation")
	}
}
