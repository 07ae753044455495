package report

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"evacuation/pkg/domain"
)

func testPlan() *domain.PlanResult {
	return &domain.PlanResult{
		RunID:    "run-42",
		Building: "office-2f",
		Results: []domain.ScenarioResult{
			{
				Scenario:      domain.Scenario{Name: domain.BaselineScenario},
				FlowValue:     80,
				TotalTimeCost: 4000,
				Flows: []domain.CorridorFlow{
					{From: "N", To: "A", Flow: 80, Capacity: 120, TravelTime: 10},
					{From: "A", To: "B", Flow: 40, Capacity: 60, TravelTime: 5},
				},
			},
			{
				Scenario: domain.Scenario{
					Name:        "corridor-A-B-closed",
					Disruptions: []domain.Disruption{{From: "A", To: "B"}},
				},
				FlowValue:     60,
				TotalTimeCost: 3600,
				Flows: []domain.CorridorFlow{
					{From: "N", To: "A", Flow: 60, Capacity: 120, TravelTime: 10},
					{From: "A", To: "B", Flow: 0, Capacity: 0, TravelTime: 5},
				},
				Warnings: []string{"some warning"},
			},
		},
	}
}

func TestNewGenerator(t *testing.T) {
	for _, format := range SupportedFormats() {
		g, err := NewGenerator(format)
		if err != nil {
			t.Fatalf("NewGenerator(%s) error = %v", format, err)
		}
		if g.Format() != format {
			t.Errorf("Format() = %v, want %v", g.Format(), format)
		}
	}

	if _, err := NewGenerator("xml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestCSVGenerator_Generate(t *testing.T) {
	g := NewCSVGenerator()

	result, err := g.Generate(context.Background(), testPlan(), DefaultOptions())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	out := string(result)
	for _, want := range []string{"run-42", "office-2f", "baseline", "corridor-A-B-closed", "80.0000", "60.0000"} {
		if !strings.Contains(out, want) {
			t.Errorf("CSV should contain %q", want)
		}
	}
	if !strings.Contains(out, "Corridor Flows: baseline") {
		t.Error("CSV should contain the flow table")
	}
}

func TestCSVGenerator_WithoutFlows(t *testing.T) {
	g := NewCSVGenerator()

	result, err := g.Generate(context.Background(), testPlan(), &Options{IncludeFlows: false})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if strings.Contains(string(result), "Corridor Flows") {
		t.Error("flow table should be omitted")
	}
}

func TestJSONGenerator_Generate(t *testing.T) {
	g := NewJSONGenerator()

	result, err := g.Generate(context.Background(), testPlan(), DefaultOptions())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var rep jsonReport
	if err := json.Unmarshal(result, &rep); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if rep.RunID != "run-42" || rep.Building != "office-2f" {
		t.Errorf("unexpected metadata: %+v", rep)
	}
	if len(rep.Scenarios) != 2 {
		t.Fatalf("expected 2 scenarios, got %d", len(rep.Scenarios))
	}
	if rep.Scenarios[1].FlowChangePercent >= 0 {
		t.Errorf("disrupted scenario should show negative flow change, got %f",
			rep.Scenarios[1].FlowChangePercent)
	}
	if len(rep.Flows["baseline"]) != 2 {
		t.Errorf("expected 2 baseline flow rows, got %d", len(rep.Flows["baseline"]))
	}
}

func TestMarkdownGenerator_Generate(t *testing.T) {
	g := NewMarkdownGenerator()

	result, err := g.Generate(context.Background(), testPlan(), DefaultOptions())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	out := string(result)
	if !strings.Contains(out, "# Evacuation Plan: office-2f") {
		t.Error("markdown should contain the title")
	}
	if !strings.Contains(out, "| baseline |") {
		t.Error("markdown should contain the scenario table")
	}
	if !strings.Contains(out, "some warning") {
		t.Error("markdown should list warnings")
	}
}

func TestMarkdownGenerator_CustomTitle(t *testing.T) {
	g := NewMarkdownGenerator()

	result, err := g.Generate(context.Background(), testPlan(), &Options{Title: "Drill Report", IncludeFlows: true})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(string(result), "# Drill Report") {
		t.Error("custom title should be used")
	}
}

func TestExcelGenerator_Generate(t *testing.T) {
	g := NewExcelGenerator()

	result, err := g.Generate(context.Background(), testPlan(), DefaultOptions())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	// XLSX файлы это zip-архивы
	if !bytes.HasPrefix(result, []byte("PK")) {
		t.Error("excel output should be a zip archive")
	}
}

func TestPDFGenerator_Generate(t *testing.T) {
	g := NewPDFGenerator()

	result, err := g.Generate(context.Background(), testPlan(), DefaultOptions())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !bytes.HasPrefix(result, []byte("%PDF")) {
		t.Error("output should start with the PDF magic")
	}
}

func TestFormatHelpers(t *testing.T) {
	if FormatCSV.ContentType() != "text/csv" {
		t.Error("unexpected csv content type")
	}
	if FormatExcel.Extension() != "xlsx" {
		t.Error("unexpected excel extension")
	}
	if FormatMarkdown.Extension() != "md" {
		t.Error("unexpected markdown extension")
	}

	if got := FlowChangePercent(80, 60); got != -25 {
		t.Errorf("FlowChangePercent(80, 60) = %f, want -25", got)
	}
	if got := FlowChangePercent(0, 60); got != 0 {
		t.Errorf("FlowChangePercent(0, 60) = %f, want 0", got)
	}
	if got := Utilization(40, 80); got != 0.5 {
		t.Errorf("Utilization(40, 80) = %f, want 0.5", got)
	}
	if got := Utilization(0, 0); got != 0 {
		t.Errorf("Utilization(0, 0) = %f, want 0", got)
	}
}
