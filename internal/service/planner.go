// Package service содержит прикладной слой: планирование эвакуации с
// кэшированием, сохранением истории и генерацией отчётов.
package service

import (
	"context"
	"encoding/json"

	"evacuation/internal/history"
	"evacuation/internal/report"
	"evacuation/internal/scenario"
	"evacuation/pkg/cache"
	"evacuation/pkg/domain"
	"evacuation/pkg/logger"
	"evacuation/pkg/metrics"
	"evacuation/pkg/telemetry"
)

// Planner оркестрирует полный цикл планирования: кэш, прогон
// сценариев, запись в историю
type Planner struct {
	base      *domain.Graph
	scenarios []domain.Scenario
	runner    *scenario.Runner
	cache     *cache.PlanCache       // nil - без кэша
	repo      history.RunRepository  // nil - без истории
}

// NewPlanner создаёт планировщик. Кэш и репозиторий опциональны.
func NewPlanner(base *domain.Graph, scenarios []domain.Scenario, runner *scenario.Runner, planCache *cache.PlanCache, repo history.RunRepository) *Planner {
	return &Planner{
		base:      base,
		scenarios: scenarios,
		runner:    runner,
		cache:     planCache,
		repo:      repo,
	}
}

// Building возвращает имя здания планировщика
func (p *Planner) Building() string {
	return p.base.Name()
}

// Plan выполняет план эвакуации: все сценарии против базового графа.
// Повторный запрос с той же топологией и сценариями обслуживается из
// кэша; свежие результаты записываются в кэш и в историю.
func (p *Planner) Plan(ctx context.Context) (*domain.PlanResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "planner.plan")
	defer span.End()

	telemetry.SetAttributes(ctx, telemetry.GraphAttributes(
		p.base.NodeCount(), p.base.CorridorCount(),
		p.base.SourceID(), p.base.SinkID())...)

	if p.cache != nil {
		cached, hit, err := p.cache.Get(ctx, p.base, p.scenarios)
		metrics.Get().RecordCacheLookup(hit)
		if err != nil {
			logger.Warn("plan cache lookup failed", "error", err)
		}
		if hit {
			logger.WithRunID(cached.RunID).Debug("plan served from cache")
			return cached, nil
		}
	}

	plan, err := p.runner.RunAll(ctx, p.base, p.scenarios)
	if err != nil {
		telemetry.SetError(ctx, err)
		return nil, err
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, p.base, p.scenarios, plan, 0); err != nil {
			logger.Warn("plan cache store failed", "error", err)
		}
	}

	if p.repo != nil {
		if err := p.persist(ctx, plan); err != nil {
			// История не должна ронять сам расчёт
			logger.Error("failed to persist run", "run_id", plan.RunID, "error", err)
		}
	}

	return plan, nil
}

// Report генерирует отчёт по готовому плану в указанном формате
func (p *Planner) Report(ctx context.Context, plan *domain.PlanResult, format report.Format, opts *report.Options) ([]byte, error) {
	ctx, span := telemetry.StartSpan(ctx, "planner.report")
	defer span.End()

	gen, err := report.NewGenerator(format)
	if err != nil {
		return nil, err
	}

	data, err := gen.Generate(ctx, plan, opts)
	if err != nil {
		telemetry.SetError(ctx, err)
		return nil, err
	}
	return data, nil
}

// PlanAndReport выполняет план и сразу формирует отчёт
func (p *Planner) PlanAndReport(ctx context.Context, format report.Format, opts *report.Options) (*domain.PlanResult, []byte, error) {
	plan, err := p.Plan(ctx)
	if err != nil {
		return nil, nil, err
	}

	data, err := p.Report(ctx, plan, format, opts)
	if err != nil {
		return nil, nil, err
	}
	return plan, data, nil
}

// Invalidate сбрасывает кэш планов для текущей топологии
func (p *Planner) Invalidate(ctx context.Context) error {
	if p.cache == nil {
		return nil
	}
	return p.cache.Invalidate(ctx, p.base)
}

func (p *Planner) persist(ctx context.Context, plan *domain.PlanResult) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return err
	}

	run := &history.Run{
		ID:            plan.RunID,
		Building:      plan.Building,
		ScenarioCount: len(plan.Results),
		PlanData:      data,
	}
	if baseline := plan.Baseline(); baseline != nil {
		run.BaselineFlow = baseline.FlowValue
		run.BaselineCost = baseline.TotalTimeCost
	}

	return p.repo.Create(ctx, run)
}
