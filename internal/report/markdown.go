package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"evacuation/pkg/domain"
)

// MarkdownGenerator генератор Markdown отчётов
type MarkdownGenerator struct {
	BaseGenerator
}

// NewMarkdownGenerator создаёт новый генератор
func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

// Format возвращает формат генератора
func (g *MarkdownGenerator) Format() Format {
	return FormatMarkdown
}

// Generate генерирует Markdown отчёт
func (g *MarkdownGenerator) Generate(ctx context.Context, plan *domain.PlanResult, opts *Options) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", g.GetTitle(plan, opts)))
	buf.WriteString("## Report Information\n\n")
	buf.WriteString(fmt.Sprintf("- **Generated:** %s\n", g.FormatTimestamp(time.Now())))
	buf.WriteString(fmt.Sprintf("- **Run ID:** %s\n", plan.RunID))
	buf.WriteString(fmt.Sprintf("- **Building:** %s\n", plan.Building))
	buf.WriteString("\n---\n\n")

	baseline := plan.Baseline()

	buf.WriteString("## Scenarios\n\n")
	buf.WriteString("| Scenario | Disruptions | Flow Value | Time Cost | Flow Change |\n")
	buf.WriteString("|----------|-------------|------------|-----------|-------------|\n")
	for _, res := range plan.Results {
		change := 0.0
		if baseline != nil {
			change = FlowChangePercent(baseline.FlowValue, res.FlowValue)
		}
		buf.WriteString(fmt.Sprintf("| %s | %d | %.4f | %.4f | %.2f%% |\n",
			res.Scenario.Name, len(res.Scenario.Disruptions),
			res.FlowValue, res.TotalTimeCost, change))
	}
	buf.WriteString("\n")

	for _, res := range plan.Results {
		if len(res.Warnings) > 0 {
			buf.WriteString(fmt.Sprintf("### Warnings: %s\n\n", res.Scenario.Name))
			for _, w := range res.Warnings {
				buf.WriteString(fmt.Sprintf("- %s\n", w))
			}
			buf.WriteString("\n")
		}
	}

	if g.ShouldIncludeFlows(opts) {
		for _, res := range plan.Results {
			buf.WriteString(fmt.Sprintf("### Corridor Flows: %s\n\n", res.Scenario.Name))
			buf.WriteString("| From | To | Flow | Capacity | Travel Time | Utilization |\n")
			buf.WriteString("|------|-----|------|----------|-------------|-------------|\n")
			for _, flow := range res.Flows {
				buf.WriteString(fmt.Sprintf("| %s | %s | %.4f | %.4f | %.4f | %s |\n",
					flow.From, flow.To, flow.Flow, flow.Capacity, flow.TravelTime,
					g.FormatPercent(Utilization(flow.Flow, flow.Capacity))))
			}
			buf.WriteString("\n")
		}
	}

	buf.WriteString("---\n\n*Generated by the evacuation planning service*\n")

	return buf.Bytes(), nil
}
