package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"evacuation/pkg/domain"
)

// JSONGenerator генератор JSON отчётов
type JSONGenerator struct {
	BaseGenerator
}

// NewJSONGenerator создаёт новый генератор
func NewJSONGenerator() *JSONGenerator {
	return &JSONGenerator{}
}

// Format возвращает формат генератора
func (g *JSONGenerator) Format() Format {
	return FormatJSON
}

// jsonReport структура JSON отчёта
type jsonReport struct {
	Title       string                `json:"title"`
	GeneratedAt time.Time             `json:"generated_at"`
	RunID       string                `json:"run_id"`
	Building    string                `json:"building"`
	Scenarios   []jsonScenario        `json:"scenarios"`
	Flows       map[string][]jsonFlow `json:"flows,omitempty"`
}

type jsonScenario struct {
	Name              string   `json:"name"`
	Disruptions       int      `json:"disruptions"`
	FlowValue         float64  `json:"flow_value"`
	TotalTimeCost     float64  `json:"total_time_cost"`
	FlowChangePercent float64  `json:"flow_change_percent"`
	Warnings          []string `json:"warnings,omitempty"`
}

type jsonFlow struct {
	From        string  `json:"from"`
	To          string  `json:"to"`
	Flow        float64 `json:"flow"`
	Capacity    float64 `json:"capacity"`
	TravelTime  float64 `json:"travel_time"`
	Utilization float64 `json:"utilization"`
}

// Generate генерирует JSON отчёт
func (g *JSONGenerator) Generate(ctx context.Context, plan *domain.PlanResult, opts *Options) ([]byte, error) {
	baseline := plan.Baseline()

	rep := jsonReport{
		Title:       g.GetTitle(plan, opts),
		GeneratedAt: time.Now().UTC(),
		RunID:       plan.RunID,
		Building:    plan.Building,
	}

	for _, res := range plan.Results {
		change := 0.0
		if baseline != nil {
			change = FlowChangePercent(baseline.FlowValue, res.FlowValue)
		}
		rep.Scenarios = append(rep.Scenarios, jsonScenario{
			Name:              res.Scenario.Name,
			Disruptions:       len(res.Scenario.Disruptions),
			FlowValue:         res.FlowValue,
			TotalTimeCost:     res.TotalTimeCost,
			FlowChangePercent: change,
			Warnings:          res.Warnings,
		})
	}

	if g.ShouldIncludeFlows(opts) {
		rep.Flows = make(map[string][]jsonFlow, len(plan.Results))
		for _, res := range plan.Results {
			flows := make([]jsonFlow, 0, len(res.Flows))
			for _, f := range res.Flows {
				flows = append(flows, jsonFlow{
					From:        f.From,
					To:          f.To,
					Flow:        f.Flow,
					Capacity:    f.Capacity,
					TravelTime:  f.TravelTime,
					Utilization: Utilization(f.Flow, f.Capacity),
				})
			}
			rep.Flows[res.Scenario.Name] = flows
		}
	}

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal error: %w", err)
	}
	return data, nil
}
