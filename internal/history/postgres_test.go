package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *PostgresRunRepository) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)

	return mock, NewPostgresRunRepository(mock)
}

func TestPostgresRunRepository_Create(t *testing.T) {
	mock, repo := newMockRepo(t)
	now := time.Now()

	run := &Run{
		ID:            "5a0a9e3c-8a93-4a49-b9a5-94dba1a7e7b1",
		Building:      "office-2f",
		ScenarioCount: 2,
		BaselineFlow:  80,
		BaselineCost:  4000,
		PlanData:      []byte(`{"run_id":"5a0a9e3c"}`),
	}

	mock.ExpectQuery("INSERT INTO runs").
		WithArgs(run.ID, run.Building, run.ScenarioCount, run.BaselineFlow, run.BaselineCost, run.PlanData).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	if err := repo.Create(context.Background(), run); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !run.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", run.CreatedAt, now)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRunRepository_GetByID(t *testing.T) {
	mock, repo := newMockRepo(t)
	now := time.Now()

	rows := pgxmock.NewRows([]string{
		"id", "building", "scenario_count", "baseline_flow", "baseline_cost", "plan_data", "created_at",
	}).AddRow("run-1", "office-2f", 2, 80.0, 4000.0, []byte(`{}`), now)

	mock.ExpectQuery("SELECT (.+) FROM runs").
		WithArgs("run-1").
		WillReturnRows(rows)

	run, err := repo.GetByID(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if run.Building != "office-2f" || run.BaselineFlow != 80 {
		t.Errorf("unexpected run: %+v", run)
	}
}

func TestPostgresRunRepository_GetByID_NotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM runs").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "building", "scenario_count", "baseline_flow", "baseline_cost", "plan_data", "created_at",
		}))

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestPostgresRunRepository_Delete(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec("DELETE FROM runs").
		WithArgs("run-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	if err := repo.Delete(context.Background(), "run-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	mock.ExpectExec("DELETE FROM runs").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.Delete(context.Background(), "missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestPostgresRunRepository_List(t *testing.T) {
	mock, repo := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM runs").
		WithArgs("office-2f").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))

	rows := pgxmock.NewRows([]string{
		"id", "building", "scenario_count", "baseline_flow", "baseline_cost", "created_at",
	}).
		AddRow("run-2", "office-2f", 2, 80.0, 4000.0, now).
		AddRow("run-1", "office-2f", 2, 78.0, 4100.0, now.Add(-time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM runs").
		WithArgs("office-2f", 20, 0).
		WillReturnRows(rows)

	results, total, err := repo.List(context.Background(), &ListOptions{Building: "office-2f"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 2 || len(results) != 2 {
		t.Errorf("total = %d, results = %d, want 2/2", total, len(results))
	}
	if results[0].ID != "run-2" {
		t.Errorf("expected newest run first, got %s", results[0].ID)
	}
}

func TestPostgresRunRepository_GetBuildingStatistics(t *testing.T) {
	mock, repo := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM runs").
		WithArgs("office-2f").
		WillReturnRows(pgxmock.NewRows([]string{"count", "avg_flow", "avg_cost", "max_created"}).
			AddRow(3, 79.5, 4050.0, &now))

	stats, err := repo.GetBuildingStatistics(context.Background(), "office-2f")
	if err != nil {
		t.Fatalf("GetBuildingStatistics() error = %v", err)
	}
	if stats.TotalRuns != 3 || stats.AverageBaselineFlow != 79.5 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.LastRunAt == nil || !stats.LastRunAt.Equal(now) {
		t.Errorf("unexpected LastRunAt: %v", stats.LastRunAt)
	}
}
