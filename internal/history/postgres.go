package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"evacuation/pkg/database"
	"evacuation/pkg/telemetry"
)

// PostgresRunRepository PostgreSQL реализация репозитория
type PostgresRunRepository struct {
	db database.DB
}

// NewPostgresRunRepository создаёт новый репозиторий
func NewPostgresRunRepository(db database.DB) *PostgresRunRepository {
	return &PostgresRunRepository{db: db}
}

func (r *PostgresRunRepository) Create(ctx context.Context, run *Run) error {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRunRepository.Create")
	defer span.End()

	query := `
		INSERT INTO runs (
			id, building, scenario_count, baseline_flow, baseline_cost, plan_data
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		run.ID,
		run.Building,
		run.ScenarioCount,
		run.BaselineFlow,
		run.BaselineCost,
		run.PlanData,
	).Scan(&run.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	return nil
}

func (r *PostgresRunRepository) GetByID(ctx context.Context, id string) (*Run, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRunRepository.GetByID")
	defer span.End()

	query := `
		SELECT id, building, scenario_count, baseline_flow, baseline_cost, plan_data, created_at
		FROM runs
		WHERE id = $1
	`

	run := &Run{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&run.ID,
		&run.Building,
		&run.ScenarioCount,
		&run.BaselineFlow,
		&run.BaselineCost,
		&run.PlanData,
		&run.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return run, nil
}

func (r *PostgresRunRepository) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRunRepository.Delete")
	defer span.End()

	result, err := r.db.Exec(ctx, `DELETE FROM runs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrRunNotFound
	}

	return nil
}

func (r *PostgresRunRepository) List(ctx context.Context, opts *ListOptions) ([]*RunSummary, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRunRepository.List")
	defer span.End()

	if opts == nil {
		opts = &ListOptions{Limit: 20}
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}

	where := "TRUE"
	args := []any{}
	if opts.Building != "" {
		where = "building = $1"
		args = append(args, opts.Building)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM runs WHERE %s`, where)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count runs: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT id, building, scenario_count, baseline_flow, baseline_cost, created_at
		FROM runs
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	args = append(args, opts.Limit, opts.Offset)

	rows, err := r.db.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []*RunSummary
	for rows.Next() {
		summary := &RunSummary{}
		err := rows.Scan(
			&summary.ID,
			&summary.Building,
			&summary.ScenarioCount,
			&summary.BaselineFlow,
			&summary.BaselineCost,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan run: %w", err)
		}
		results = append(results, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return results, total, nil
}

func (r *PostgresRunRepository) GetBuildingStatistics(ctx context.Context, building string) (*BuildingStatistics, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRunRepository.GetBuildingStatistics")
	defer span.End()

	query := `
		SELECT
			COUNT(*),
			COALESCE(AVG(baseline_flow), 0),
			COALESCE(AVG(baseline_cost), 0),
			MAX(created_at)
		FROM runs
		WHERE building = $1
	`

	stats := &BuildingStatistics{}
	err := r.db.QueryRow(ctx, query, building).Scan(
		&stats.TotalRuns,
		&stats.AverageBaselineFlow,
		&stats.AverageBaselineCost,
		&stats.LastRunAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get building statistics: %w", err)
	}

	return stats, nil
}
