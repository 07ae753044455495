package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"evacuation/pkg/domain"
)

// ExcelGenerator генератор Excel отчётов
type ExcelGenerator struct {
	BaseGenerator
}

// NewExcelGenerator создаёт новый генератор
func NewExcelGenerator() *ExcelGenerator {
	return &ExcelGenerator{}
}

// Format возвращает формат генератора
func (g *ExcelGenerator) Format() Format {
	return FormatExcel
}

func cellAddr(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// Generate генерирует Excel отчёт
func (g *ExcelGenerator) Generate(ctx context.Context, plan *domain.PlanResult, opts *Options) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	g.writeSummarySheet(f, plan, opts, headerStyle)

	if g.ShouldIncludeFlows(opts) {
		g.writeFlowsSheet(f, plan, headerStyle)
	}

	// Удаляем дефолтный лист после создания своих
	f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("excel write error: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *ExcelGenerator) writeSummarySheet(f *excelize.File, plan *domain.PlanResult, opts *Options, headerStyle int) {
	const sheet = "Summary"
	f.NewSheet(sheet)

	row := 1
	f.SetCellValue(sheet, cellAddr("A", row), g.GetTitle(plan, opts))
	f.MergeCell(sheet, cellAddr("A", row), cellAddr("F", row))
	row += 2

	f.SetCellValue(sheet, cellAddr("A", row), "Run ID")
	f.SetCellValue(sheet, cellAddr("B", row), plan.RunID)
	row++
	f.SetCellValue(sheet, cellAddr("A", row), "Building")
	f.SetCellValue(sheet, cellAddr("B", row), plan.Building)
	row += 2

	headers := []string{"Scenario", "Disruptions", "Flow Value", "Time Cost", "Flow Change %", "Warnings"}
	cols := []string{"A", "B", "C", "D", "E", "F"}
	for i, h := range headers {
		f.SetCellValue(sheet, cellAddr(cols[i], row), h)
	}
	f.SetCellStyle(sheet, cellAddr("A", row), cellAddr("F", row), headerStyle)
	row++

	baseline := plan.Baseline()
	for _, res := range plan.Results {
		change := 0.0
		if baseline != nil {
			change = FlowChangePercent(baseline.FlowValue, res.FlowValue)
		}
		f.SetCellValue(sheet, cellAddr("A", row), res.Scenario.Name)
		f.SetCellValue(sheet, cellAddr("B", row), len(res.Scenario.Disruptions))
		f.SetCellValue(sheet, cellAddr("C", row), res.FlowValue)
		f.SetCellValue(sheet, cellAddr("D", row), res.TotalTimeCost)
		f.SetCellValue(sheet, cellAddr("E", row), change)
		f.SetCellValue(sheet, cellAddr("F", row), len(res.Warnings))
		row++
	}
}

func (g *ExcelGenerator) writeFlowsSheet(f *excelize.File, plan *domain.PlanResult, headerStyle int) {
	const sheet = "Flows"
	f.NewSheet(sheet)

	row := 1
	headers := []string{"Scenario", "From", "To", "Flow", "Capacity", "Travel Time", "Utilization"}
	cols := []string{"A", "B", "C", "D", "E", "F", "G"}
	for i, h := range headers {
		f.SetCellValue(sheet, cellAddr(cols[i], row), h)
	}
	f.SetCellStyle(sheet, cellAddr("A", row), cellAddr("G", row), headerStyle)
	row++

	for _, res := range plan.Results {
		for _, flow := range res.Flows {
			f.SetCellValue(sheet, cellAddr("A", row), res.Scenario.Name)
			f.SetCellValue(sheet, cellAddr("B", row), flow.From)
			f.SetCellValue(sheet, cellAddr("C", row), flow.To)
			f.SetCellValue(sheet, cellAddr("D", row), flow.Flow)
			f.SetCellValue(sheet, cellAddr("E", row), flow.Capacity)
			f.SetCellValue(sheet, cellAddr("F", row), flow.TravelTime)
			f.SetCellValue(sheet, cellAddr("G", row), Utilization(flow.Flow, flow.Capacity))
			row++
		}
	}
}
