package report

import (
	"context"
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"evacuation/pkg/domain"
)

// PDFGenerator генератор PDF отчётов
type PDFGenerator struct {
	BaseGenerator
}

// NewPDFGenerator создаёт новый генератор
func NewPDFGenerator() *PDFGenerator {
	return &PDFGenerator{}
}

// Format возвращает формат генератора
func (g *PDFGenerator) Format() Format {
	return FormatPDF
}

// Стили
var (
	headerBgColor = &props.Color{Red: 44, Green: 62, Blue: 80}
	primaryColor  = &props.Color{Red: 52, Green: 152, Blue: 219}
	darkGrayColor = &props.Color{Red: 127, Green: 140, Blue: 141}
	whiteColor    = &props.Color{Red: 255, Green: 255, Blue: 255}

	titleStyle = props.Text{
		Size:  20,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: headerBgColor,
	}

	h2Style = props.Text{
		Size:  14,
		Style: fontstyle.Bold,
		Color: headerBgColor,
		Top:   5,
	}

	smallStyle = props.Text{
		Size:  8,
		Color: darkGrayColor,
	}

	tableHeaderCell = &props.Cell{
		BackgroundColor: primaryColor,
	}

	tableHeaderText = props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Color: whiteColor,
		Align: align.Center,
	}

	tableCellText = props.Text{
		Size:  9,
		Align: align.Center,
	}
)

// Generate генерирует PDF отчёт
func (g *PDFGenerator) Generate(ctx context.Context, plan *domain.PlanResult, opts *Options) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	g.addHeader(m, plan, opts)
	g.addScenarioTable(m, plan)

	if g.ShouldIncludeFlows(opts) {
		g.addFlowTables(m, plan)
	}

	g.addFooter(m)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *PDFGenerator) addHeader(m core.Maroto, plan *domain.PlanResult, opts *Options) {
	m.AddRow(12, text.NewCol(12, g.GetTitle(plan, opts), titleStyle))
	m.AddRow(6, text.NewCol(12,
		fmt.Sprintf("Run %s | Building %s | %s",
			plan.RunID, plan.Building, g.FormatTimestamp(time.Now())),
		smallStyle))
	m.AddRow(4, line.NewCol(12))
}

func (g *PDFGenerator) addScenarioTable(m core.Maroto, plan *domain.PlanResult) {
	m.AddRow(10, text.NewCol(12, "Scenarios", h2Style))

	m.AddRow(7,
		text.NewCol(4, "Scenario", tableHeaderText).WithStyle(tableHeaderCell),
		text.NewCol(2, "Disruptions", tableHeaderText).WithStyle(tableHeaderCell),
		text.NewCol(2, "Flow", tableHeaderText).WithStyle(tableHeaderCell),
		text.NewCol(2, "Time Cost", tableHeaderText).WithStyle(tableHeaderCell),
		text.NewCol(2, "Change %", tableHeaderText).WithStyle(tableHeaderCell),
	)

	baseline := plan.Baseline()
	for _, res := range plan.Results {
		change := 0.0
		if baseline != nil {
			change = FlowChangePercent(baseline.FlowValue, res.FlowValue)
		}
		m.AddRow(6,
			text.NewCol(4, res.Scenario.Name, tableCellText),
			text.NewCol(2, fmt.Sprintf("%d", len(res.Scenario.Disruptions)), tableCellText),
			text.NewCol(2, g.FormatFloat(res.FlowValue, 2), tableCellText),
			text.NewCol(2, g.FormatFloat(res.TotalTimeCost, 2), tableCellText),
			text.NewCol(2, g.FormatFloat(change, 1), tableCellText),
		)
	}
}

func (g *PDFGenerator) addFlowTables(m core.Maroto, plan *domain.PlanResult) {
	for _, res := range plan.Results {
		m.AddRow(10, text.NewCol(12, "Corridor Flows: "+res.Scenario.Name, h2Style))

		m.AddRow(7,
			text.NewCol(3, "From", tableHeaderText).WithStyle(tableHeaderCell),
			text.NewCol(3, "To", tableHeaderText).WithStyle(tableHeaderCell),
			text.NewCol(2, "Flow", tableHeaderText).WithStyle(tableHeaderCell),
			text.NewCol(2, "Capacity", tableHeaderText).WithStyle(tableHeaderCell),
			text.NewCol(2, "Utilization", tableHeaderText).WithStyle(tableHeaderCell),
		)

		for _, flow := range res.Flows {
			m.AddRow(5,
				text.NewCol(3, flow.From, tableCellText),
				text.NewCol(3, flow.To, tableCellText),
				text.NewCol(2, g.FormatFloat(flow.Flow, 2), tableCellText),
				text.NewCol(2, g.FormatFloat(flow.Capacity, 2), tableCellText),
				text.NewCol(2, g.FormatPercent(Utilization(flow.Flow, flow.Capacity)), tableCellText),
			)
		}
	}
}

func (g *PDFGenerator) addFooter(m core.Maroto) {
	m.AddRow(4, line.NewCol(12))
	m.AddRow(5, text.NewCol(12, "Generated by the evacuation planning service", smallStyle))
}
