package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"evacuation/pkg/domain"
)

// CSVGenerator генератор CSV отчётов
type CSVGenerator struct {
	BaseGenerator
}

// NewCSVGenerator создаёт новый генератор
func NewCSVGenerator() *CSVGenerator {
	return &CSVGenerator{}
}

// Format возвращает формат генератора
func (g *CSVGenerator) Format() Format {
	return FormatCSV
}

// csvWriter обёртка для отслеживания ошибок
type csvWriter struct {
	w   *csv.Writer
	err error
}

func (cw *csvWriter) Write(record []string) {
	if cw.err != nil {
		return
	}
	cw.err = cw.w.Write(record)
}

func (cw *csvWriter) Flush() {
	if cw.err != nil {
		return
	}
	cw.w.Flush()
	cw.err = cw.w.Error()
}

// Generate генерирует CSV отчёт
func (g *CSVGenerator) Generate(ctx context.Context, plan *domain.PlanResult, opts *Options) ([]byte, error) {
	var buf bytes.Buffer
	cw := &csvWriter{w: csv.NewWriter(&buf)}

	cw.Write([]string{"# " + g.GetTitle(plan, opts)})
	cw.Write([]string{"Run ID", plan.RunID})
	cw.Write([]string{"Building", plan.Building})
	cw.Write([]string{""})

	baseline := plan.Baseline()

	cw.Write([]string{"Scenarios"})
	cw.Write([]string{"Name", "Disruptions", "Flow Value", "Total Time Cost", "Flow Change %", "Warnings"})
	for _, res := range plan.Results {
		change := 0.0
		if baseline != nil {
			change = FlowChangePercent(baseline.FlowValue, res.FlowValue)
		}
		cw.Write([]string{
			res.Scenario.Name,
			fmt.Sprintf("%d", len(res.Scenario.Disruptions)),
			g.FormatFloat(res.FlowValue, 4),
			g.FormatFloat(res.TotalTimeCost, 4),
			g.FormatFloat(change, 2),
			fmt.Sprintf("%d", len(res.Warnings)),
		})
	}
	cw.Write([]string{""})

	if g.ShouldIncludeFlows(opts) {
		for _, res := range plan.Results {
			cw.Write([]string{"Corridor Flows: " + res.Scenario.Name})
			cw.Write([]string{"From", "To", "Flow", "Capacity", "Travel Time", "Utilization"})
			for _, flow := range res.Flows {
				cw.Write([]string{
					flow.From,
					flow.To,
					g.FormatFloat(flow.Flow, 4),
					g.FormatFloat(flow.Capacity, 4),
					g.FormatFloat(flow.TravelTime, 4),
					g.FormatFloat(Utilization(flow.Flow, flow.Capacity), 4),
				})
			}
			cw.Write([]string{""})
		}
	}

	cw.Flush()
	if cw.err != nil {
		return nil, fmt.Errorf("csv write error: %w", cw.err)
	}

	return buf.Bytes(), nil
}
