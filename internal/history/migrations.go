package history

import (
	"context"
	"embed"

	"github.com/jackc/pgx/v5/pgxpool"

	"evacuation/pkg/config"
	"evacuation/pkg/database"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate применяет миграции схемы истории если включено в конфигурации
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg *config.DatabaseConfig) error {
	return database.RunMigrations(ctx, pool, cfg, migrationsFS, "migrations")
}
