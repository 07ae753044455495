package scenario

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evacuation/pkg/apperror"
	"evacuation/pkg/config"
	"evacuation/pkg/domain"
)

func diamondBuilding(t *testing.T) *domain.Graph {
	t.Helper()

	g, err := domain.BuildGraph("diamond",
		[]domain.NodeSpec{
			{ID: "S", Role: domain.RoleEntrance},
			{ID: "A", Role: domain.RoleJunction},
			{ID: "B", Role: domain.RoleJunction},
			{ID: "T", Role: domain.RoleExit},
		},
		[]domain.CorridorSpec{
			{From: "S", To: "A", Capacity: 5, Length: 10, Kind: domain.KindCorridor},
			{From: "S", To: "B", Capacity: 3, Length: 20, Kind: domain.KindStairs},
			{From: "A", To: "T", Capacity: 4, Length: 10, Kind: domain.KindCorridor},
			{From: "B", To: "T", Capacity: 5, Length: 10, Kind: domain.KindCorridor},
		},
		domain.BuildParams{WalkingSpeed: 1.0, StairPenalty: 5.0},
	)
	require.NoError(t, err)
	return g
}

func TestRunScenario_Baseline(t *testing.T) {
	r := NewRunner(nil)
	g := diamondBuilding(t)

	result, err := r.RunScenario(context.Background(), g, domain.Scenario{Name: domain.BaselineScenario})
	require.NoError(t, err)

	assert.InDelta(t, 7.0, result.FlowValue, domain.Epsilon)
	assert.InDelta(t, 185.0, result.TotalTimeCost, 1e-6)
	assert.Empty(t, result.Warnings)
	require.NoError(t, result.Assignment.CheckConservation(g))
	require.NoError(t, result.Assignment.CheckCapacity(g))
}

func TestRunScenario_Disruption(t *testing.T) {
	r := NewRunner(nil)
	g := diamondBuilding(t)

	sc := domain.Scenario{
		Name:        "S-A-closed",
		Disruptions: []domain.Disruption{{From: "S", To: "A"}},
	}

	result, err := r.RunScenario(context.Background(), g, sc)
	require.NoError(t, err)

	assert.InDelta(t, 3.0, result.FlowValue, domain.Epsilon)
	assert.InDelta(t, 105.0, result.TotalTimeCost, 1e-6)

	// Closed corridor and the path it starves stay in the table with zero flow
	assert.Zero(t, flowOn(t, result, "S", "A"))
	assert.Zero(t, flowOn(t, result, "A", "T"))
}

// flowOn returns the routed flow on a corridor, failing if the corridor
// is missing from the result table.
func flowOn(t *testing.T, result domain.ScenarioResult, from, to string) float64 {
	t.Helper()
	for _, f := range result.Flows {
		if f.From == from && f.To == to {
			return f.Flow
		}
	}
	t.Fatalf("corridor %s->%s missing from flow table", from, to)
	return 0
}

func TestRunScenario_DisruptionMonotonicity(t *testing.T) {
	r := NewRunner(nil)
	g := diamondBuilding(t)
	ctx := context.Background()

	baseline, err := r.RunScenario(ctx, g, domain.Scenario{Name: domain.BaselineScenario})
	require.NoError(t, err)

	// Closing any single corridor never increases throughput, and the
	// closed corridor carries no flow
	for _, c := range g.Corridors() {
		sc := domain.Scenario{
			Name:        "closed-" + c.From + "-" + c.To,
			Disruptions: []domain.Disruption{{From: c.From, To: c.To}},
		}
		result, err := r.RunScenario(ctx, g, sc)
		require.NoError(t, err, sc.Name)

		assert.LessOrEqual(t, result.FlowValue, baseline.FlowValue+domain.Epsilon, sc.Name)
		assert.Zero(t, flowOn(t, result, c.From, c.To), sc.Name)
	}
}

func TestRunScenario_TwoWayCorridor(t *testing.T) {
	// A and B are connected in both directions with independent
	// capacities. The solver must route the full 3 units without
	// overflowing either direction: one unit each via S-A-T, S-A-B-T
	// and S-B-T.
	r := NewRunner(nil)
	g, err := domain.BuildGraph("two-way",
		[]domain.NodeSpec{
			{ID: "S", Role: domain.RoleEntrance},
			{ID: "A", Role: domain.RoleJunction},
			{ID: "B", Role: domain.RoleJunction},
			{ID: "T", Role: domain.RoleExit},
		},
		[]domain.CorridorSpec{
			{From: "S", To: "A", Capacity: 2, Length: 10, Kind: domain.KindCorridor},
			{From: "A", To: "B", Capacity: 1, Length: 10, Kind: domain.KindCorridor},
			{From: "B", To: "T", Capacity: 2, Length: 10, Kind: domain.KindCorridor},
			{From: "S", To: "B", Capacity: 1, Length: 10, Kind: domain.KindCorridor},
			{From: "B", To: "A", Capacity: 1, Length: 10, Kind: domain.KindCorridor},
			{From: "A", To: "T", Capacity: 1, Length: 10, Kind: domain.KindCorridor},
		},
		domain.BuildParams{WalkingSpeed: 1.0, StairPenalty: 5.0},
	)
	require.NoError(t, err)

	result, err := r.RunScenario(context.Background(), g, domain.Scenario{Name: domain.BaselineScenario})
	require.NoError(t, err)

	assert.InDelta(t, 3.0, result.FlowValue, domain.Epsilon)
	assert.InDelta(t, 70.0, result.TotalTimeCost, 1e-6)
	require.NoError(t, result.Assignment.CheckConservation(g))
	require.NoError(t, result.Assignment.CheckCapacity(g))

	// Each direction keeps its own capacity
	assert.LessOrEqual(t, flowOn(t, result, "A", "B"), 1.0+domain.Epsilon)
	assert.LessOrEqual(t, flowOn(t, result, "B", "A"), 1.0+domain.Epsilon)
}

func TestRunScenario_UnreachableExit(t *testing.T) {
	r := NewRunner(nil)
	g := diamondBuilding(t)

	sc := domain.Scenario{
		Name: "everything-closed",
		Disruptions: []domain.Disruption{
			{From: "S", To: "A"},
			{From: "S", To: "B"},
		},
	}

	result, err := r.RunScenario(context.Background(), g, sc)
	require.NoError(t, err)

	assert.Zero(t, result.FlowValue)
	assert.Zero(t, result.TotalTimeCost)
	require.Len(t, result.Warnings, 1)
}

func TestRunScenario_UnknownCorridor(t *testing.T) {
	r := NewRunner(nil)
	g := diamondBuilding(t)

	sc := domain.Scenario{
		Name:        "bad",
		Disruptions: []domain.Disruption{{From: "S", To: "X"}},
	}

	_, err := r.RunScenario(context.Background(), g, sc)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeUnknownCorridor))
}

func TestRunScenario_BaseGraphUntouched(t *testing.T) {
	r := NewRunner(nil)
	g := diamondBuilding(t)

	sc := domain.Scenario{
		Name:        "S-A-closed",
		Disruptions: []domain.Disruption{{From: "S", To: "A"}},
	}
	_, err := r.RunScenario(context.Background(), g, sc)
	require.NoError(t, err)

	c, ok := g.Corridor("S", "A")
	require.True(t, ok)
	assert.Equal(t, 5.0, c.Capacity)
}

func TestRunAll_BaselineFirst(t *testing.T) {
	r := NewRunner(nil)
	g := diamondBuilding(t)

	scenarios := []domain.Scenario{
		{Name: "S-A-closed", Disruptions: []domain.Disruption{{From: "S", To: "A"}}},
		{Name: domain.BaselineScenario},
	}

	plan, err := r.RunAll(context.Background(), g, scenarios)
	require.NoError(t, err)

	require.Len(t, plan.Results, 2)
	assert.Equal(t, domain.BaselineScenario, plan.Results[0].Scenario.Name)
	assert.Equal(t, "S-A-closed", plan.Results[1].Scenario.Name)
	assert.NotEmpty(t, plan.RunID)
	assert.Equal(t, "diamond", plan.Building)
}

func TestRunAll_AddsMissingBaseline(t *testing.T) {
	r := NewRunner(nil)
	g := diamondBuilding(t)

	plan, err := r.RunAll(context.Background(), g, []domain.Scenario{
		{Name: "S-A-closed", Disruptions: []domain.Disruption{{From: "S", To: "A"}}},
	})
	require.NoError(t, err)

	require.Len(t, plan.Results, 2)
	assert.Equal(t, domain.BaselineScenario, plan.Results[0].Scenario.Name)
	assert.InDelta(t, 7.0, plan.Results[0].FlowValue, domain.Epsilon)
}

func TestRunAll_ScenarioIndependence(t *testing.T) {
	r := NewRunner(nil)
	g := diamondBuilding(t)

	sc := domain.Scenario{
		Name:        "S-A-closed",
		Disruptions: []domain.Disruption{{From: "S", To: "A"}},
	}

	alone, err := r.RunScenario(context.Background(), g, sc)
	require.NoError(t, err)

	plan, err := r.RunAll(context.Background(), g, []domain.Scenario{sc})
	require.NoError(t, err)

	inPlan := plan.Results[1]
	assert.Equal(t, alone.FlowValue, inPlan.FlowValue)
	assert.Equal(t, alone.TotalTimeCost, inPlan.TotalTimeCost)
	assert.Equal(t, alone.Flows, inPlan.Flows)
}

func TestRunAll_ConcurrentMatchesSequential(t *testing.T) {
	g := diamondBuilding(t)
	scenarios := []domain.Scenario{
		{Name: domain.BaselineScenario},
		{Name: "S-A-closed", Disruptions: []domain.Disruption{{From: "S", To: "A"}}},
		{Name: "A-T-closed", Disruptions: []domain.Disruption{{From: "A", To: "T"}}},
		{Name: "B-T-closed", Disruptions: []domain.Disruption{{From: "B", To: "T"}}},
	}

	seq, err := NewRunner(&config.RunnerConfig{Concurrency: 1}).
		RunAll(context.Background(), g, scenarios)
	require.NoError(t, err)

	par, err := NewRunner(&config.RunnerConfig{Concurrency: 4, Timeout: 10 * time.Second}).
		RunAll(context.Background(), g, scenarios)
	require.NoError(t, err)

	require.Len(t, par.Results, len(seq.Results))
	for i := range seq.Results {
		assert.Equal(t, seq.Results[i].Scenario.Name, par.Results[i].Scenario.Name)
		assert.Equal(t, seq.Results[i].FlowValue, par.Results[i].FlowValue)
		assert.Equal(t, seq.Results[i].TotalTimeCost, par.Results[i].TotalTimeCost)
		assert.Equal(t, seq.Results[i].Flows, par.Results[i].Flows)
	}
}

func TestRunAll_DefaultBuilding(t *testing.T) {
	r := NewRunner(nil)
	g, err := domain.DefaultBuilding()
	require.NoError(t, err)

	plan, err := r.RunAll(context.Background(), g, domain.DefaultScenarios())
	require.NoError(t, err)

	baseline := plan.Baseline()
	require.NotNil(t, baseline)
	assert.InDelta(t, 80.0, baseline.FlowValue, 1e-6)

	require.Len(t, plan.Results, 2)
	disrupted := plan.Results[1]
	assert.InDelta(t, 60.0, disrupted.FlowValue, 1e-6)
	assert.Less(t, disrupted.FlowValue, baseline.FlowValue)
}

func TestRunAll_Deterministic(t *testing.T) {
	r := NewRunner(nil)
	g := diamondBuilding(t)
	scenarios := []domain.Scenario{{Name: domain.BaselineScenario}}

	first, err := r.RunAll(context.Background(), g, scenarios)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		next, err := r.RunAll(context.Background(), g, scenarios)
		require.NoError(t, err)
		assert.Equal(t, first.Results[0].Flows, next.Results[0].Flows)
	}
}
