// Package scenario runs the evacuation plan: the baseline topology and
// every disrupted variant, each solved independently with the two-stage
// flow solver.
package scenario

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"evacuation/internal/converter"
	"evacuation/internal/solver"
	"evacuation/pkg/apperror"
	"evacuation/pkg/config"
	"evacuation/pkg/domain"
	"evacuation/pkg/logger"
	"evacuation/pkg/metrics"
	"evacuation/pkg/telemetry"
)

// Runner executes scenarios against a base building graph.
//
// Each scenario gets its own graph copy and residual network, so runs
// never observe each other's state and the results for a scenario do
// not depend on which other scenarios are in the plan.
type Runner struct {
	concurrency int
	timeout     time.Duration
}

// NewRunner creates a runner from configuration. Concurrency 0 or 1
// means scenarios run sequentially.
func NewRunner(cfg *config.RunnerConfig) *Runner {
	r := &Runner{concurrency: 1, timeout: 30 * time.Second}
	if cfg != nil {
		if cfg.Concurrency > 1 {
			r.concurrency = cfg.Concurrency
		}
		if cfg.Timeout > 0 {
			r.timeout = cfg.Timeout
		}
	}
	return r
}

// RunScenario solves a single scenario against the base graph.
//
// The returned result carries the flow value, the total travel-time
// cost, the per-corridor flow table and any warnings. A scenario that
// cuts the exit off entirely is not an error: it yields zero flow and
// an UnreachableExit warning.
func (r *Runner) RunScenario(ctx context.Context, base *domain.Graph, sc domain.Scenario) (domain.ScenarioResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "scenario.run",
		trace.WithAttributes(telemetry.ScenarioAttributes(sc.Name, len(sc.Disruptions))...))
	defer span.End()

	result := domain.ScenarioResult{Scenario: sc}
	log := logger.WithScenario(sc.Name)

	g, err := sc.Apply(base)
	if err != nil {
		telemetry.SetError(ctx, err)
		return result, err
	}

	rg, mapping := converter.ToResidualGraph(g)
	metrics.Get().RecordGraphSize(sc.Name, rg.NodeCount(), rg.EdgeCount())

	source, ok := mapping.Index(g.SourceID())
	if !ok {
		return result, apperror.New(apperror.CodeUnknownNode, "source node missing from mapping")
	}
	sink, ok := mapping.Index(g.SinkID())
	if !ok {
		return result, apperror.New(apperror.CodeUnknownNode, "sink node missing from mapping")
	}

	opts := solver.DefaultOptions().WithTimeout(r.timeout)
	solveResult, err := solver.Solve(ctx, rg, source, sink, opts)
	if err != nil {
		telemetry.SetError(ctx, err)
		metrics.Get().RecordPlanOperation(sc.Name, false, 0, 0)
		return result, err
	}

	m := metrics.Get()
	m.RecordSolveStage("max_flow", solveResult.Stage1Duration)
	m.RecordSolveStage("min_cost", solveResult.Stage2Duration)

	assignment := converter.ExtractAssignment(rg, mapping, g)
	if err := assignment.CheckConservation(g); err != nil {
		telemetry.SetError(ctx, err)
		return result, err
	}
	if err := assignment.CheckCapacity(g); err != nil {
		telemetry.SetError(ctx, err)
		return result, err
	}

	result.FlowValue = solveResult.MaxFlow
	result.TotalTimeCost = assignment.TotalTimeCost(g)
	result.Assignment = assignment
	result.Flows = domain.CollectFlows(g, assignment)

	if solveResult.MaxFlow <= domain.Epsilon {
		warn := apperror.NewUnreachableExit(g.SourceID(), g.SinkID())
		result.Warnings = append(result.Warnings, warn.Message)
		log.Warn("exit unreachable in scenario",
			"source", g.SourceID(), "sink", g.SinkID())
	}

	telemetry.SetAttributes(ctx,
		telemetry.SolverAttributes("solve", result.FlowValue, result.TotalTimeCost)...)
	m.RecordPlanOperation(sc.Name, true, result.FlowValue, result.TotalTimeCost)

	log.Info("scenario solved",
		"flow_value", result.FlowValue,
		"time_cost", result.TotalTimeCost,
		"iterations_max_flow", solveResult.MaxFlowIterations,
		"iterations_min_cost", solveResult.MinCostIterations,
	)

	return result, nil
}

// RunAll executes every scenario of the plan and assembles the result.
//
// The baseline scenario is always evaluated and always appears first in
// the result; the remaining scenarios keep their input order. With
// concurrency above 1, scenarios run in parallel on independent graph
// copies, which does not change any individual result.
func (r *Runner) RunAll(ctx context.Context, base *domain.Graph, scenarios []domain.Scenario) (*domain.PlanResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "scenario.run_all")
	defer span.End()

	ordered := orderScenarios(scenarios)
	results := make([]domain.ScenarioResult, len(ordered))
	errs := make([]error, len(ordered))

	if r.concurrency <= 1 {
		for i, sc := range ordered {
			results[i], errs[i] = r.RunScenario(ctx, base, sc)
		}
	} else {
		sem := make(chan struct{}, r.concurrency)
		var wg sync.WaitGroup
		for i, sc := range ordered {
			wg.Add(1)
			go func(idx int, s domain.Scenario) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				results[idx], errs[idx] = r.RunScenario(ctx, base, s)
			}(i, sc)
		}
		wg.Wait()
	}

	for _, err := range errs {
		if err != nil {
			telemetry.SetError(ctx, err)
			return nil, err
		}
	}

	plan := &domain.PlanResult{
		RunID:    uuid.NewString(),
		Building: base.Name(),
		Results:  results,
	}

	logger.WithRunID(plan.RunID).Info("plan complete",
		"building", plan.Building,
		"scenarios", len(plan.Results),
	)

	return plan, nil
}

// orderScenarios puts the baseline first and keeps the rest in input
// order. A missing baseline is added so every plan has the reference
// point disrupted scenarios are compared against.
func orderScenarios(scenarios []domain.Scenario) []domain.Scenario {
	ordered := make([]domain.Scenario, 0, len(scenarios)+1)
	rest := make([]domain.Scenario, 0, len(scenarios))

	hasBaseline := false
	for _, sc := range scenarios {
		if sc.Name == domain.BaselineScenario && len(sc.Disruptions) == 0 {
			if !hasBaseline {
				ordered = append(ordered, sc)
				hasBaseline = true
			}
			continue
		}
		rest = append(rest, sc)
	}

	if !hasBaseline {
		ordered = append(ordered, domain.Scenario{Name: domain.BaselineScenario})
	}

	return append(ordered, rest...)
}
