// Package history хранит результаты прогонов плана эвакуации.
package history

import (
	"context"
	"errors"
	"time"
)

// Стандартные ошибки
var (
	ErrRunNotFound = errors.New("run not found")
)

// Run сохранённый прогон плана эвакуации
type Run struct {
	ID            string
	Building      string
	ScenarioCount int
	BaselineFlow  float64
	BaselineCost  float64
	PlanData      []byte // JSON с полным PlanResult
	CreatedAt     time.Time
}

// RunSummary краткая информация о прогоне
type RunSummary struct {
	ID            string
	Building      string
	ScenarioCount int
	BaselineFlow  float64
	BaselineCost  float64
	CreatedAt     time.Time
}

// ListOptions опции выборки прогонов
type ListOptions struct {
	Building string // пустая строка - все здания
	Limit    int
	Offset   int
}

// BuildingStatistics агрегаты по зданию
type BuildingStatistics struct {
	TotalRuns           int
	AverageBaselineFlow float64
	AverageBaselineCost float64
	LastRunAt           *time.Time
}

// RunRepository интерфейс репозитория прогонов
type RunRepository interface {
	Create(ctx context.Context, run *Run) error
	GetByID(ctx context.Context, id string) (*Run, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts *ListOptions) ([]*RunSummary, int64, error)
	GetBuildingStatistics(ctx context.Context, building string) (*BuildingStatistics, error)
}
