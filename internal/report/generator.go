// Package report формирует отчёты по плану эвакуации в нескольких
// форматах: CSV, JSON, Markdown, Excel и PDF.
package report

import (
	"context"
	"fmt"
	"time"

	"evacuation/pkg/apperror"
	"evacuation/pkg/domain"
)

// Format формат отчёта
type Format string

const (
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatExcel    Format = "excel"
	FormatPDF      Format = "pdf"
)

// ContentType возвращает MIME-тип формата
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	case FormatMarkdown:
		return "text/markdown"
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Extension возвращает расширение файла для формата
func (f Format) Extension() string {
	switch f {
	case FormatExcel:
		return "xlsx"
	case FormatMarkdown:
		return "md"
	default:
		return string(f)
	}
}

// Options опции генерации отчёта
type Options struct {
	// Title заголовок отчёта; пустой — заголовок по умолчанию
	Title string

	// IncludeFlows включать ли покоридорную таблицу потоков
	IncludeFlows bool
}

// DefaultOptions возвращает опции по умолчанию
func DefaultOptions() *Options {
	return &Options{IncludeFlows: true}
}

// Generator интерфейс генератора отчётов
type Generator interface {
	Generate(ctx context.Context, plan *domain.PlanResult, opts *Options) ([]byte, error)
	Format() Format
}

// NewGenerator возвращает генератор для формата
func NewGenerator(format Format) (Generator, error) {
	switch format {
	case FormatCSV:
		return NewCSVGenerator(), nil
	case FormatJSON:
		return NewJSONGenerator(), nil
	case FormatMarkdown:
		return NewMarkdownGenerator(), nil
	case FormatExcel:
		return NewExcelGenerator(), nil
	case FormatPDF:
		return NewPDFGenerator(), nil
	default:
		return nil, apperror.New(apperror.CodeInvalidArgument,
			fmt.Sprintf("unsupported report format: %q", format))
	}
}

// SupportedFormats возвращает список поддерживаемых форматов
func SupportedFormats() []Format {
	return []Format{FormatCSV, FormatJSON, FormatMarkdown, FormatExcel, FormatPDF}
}

// BaseGenerator общие утилиты генераторов
type BaseGenerator struct{}

// GetTitle возвращает заголовок отчёта
func (b *BaseGenerator) GetTitle(plan *domain.PlanResult, opts *Options) string {
	if opts != nil && opts.Title != "" {
		return opts.Title
	}
	return fmt.Sprintf("Evacuation Plan: %s", plan.Building)
}

// ShouldIncludeFlows проверяет нужно ли включать таблицу потоков
func (b *BaseGenerator) ShouldIncludeFlows(opts *Options) bool {
	if opts == nil {
		return true
	}
	return opts.IncludeFlows
}

// FormatFloat форматирует число с заданной точностью
func (b *BaseGenerator) FormatFloat(v float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, v)
}

// FormatPercent форматирует процент
func (b *BaseGenerator) FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// FormatTimestamp форматирует время
func (b *BaseGenerator) FormatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// FlowChangePercent изменение потока сценария относительно базового
func FlowChangePercent(baseline, scenario float64) float64 {
	if baseline <= domain.Epsilon {
		return 0
	}
	return (scenario - baseline) / baseline * 100
}

// Utilization загрузка коридора потоком
func Utilization(flow, capacity float64) float64 {
	if capacity <= domain.Epsilon {
		return 0
	}
	return flow / capacity
}
