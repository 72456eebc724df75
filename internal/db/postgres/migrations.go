// Package postgres — migrations.go применяет встроенные SQL-миграции.
// Каждая миграция выполняется в своей транзакции и записывается в schema_migrations.
package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Migration — одна версия схемы.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Migrate применяет все ещё не применённые миграции по возрастанию версии.
// Возвращает число применённых в этом запуске.
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrations []Migration) (int, error) {
	if err := ensureMigrationsTable(ctx, pool); err != nil {
		return 0, err
	}

	sorted := append([]Migration(nil), migrations...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })

	applied := 0
	for _, m := range sorted {
		ok, err := ExecMigrationSQL(ctx, pool, m.Version, m.SQL)
		if err != nil {
			return applied, fmt.Errorf("миграция %d (%s): %w", m.Version, m.Name, err)
		}
		if ok {
			applied++
			log.WithFields(log.Fields{"version": m.Version, "name": m.Name}).Info("Миграция применена")
		}
	}
	return applied, nil
}

func ensureMigrationsTable(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("ошибка создания таблицы миграций: %w", err)
	}
	return nil
}

// ExecMigrationSQL выполняет одну миграцию в транзакции.
// Уже применённая версия пропускается (false, nil).
func ExecMigrationSQL(ctx context.Context, pool *pgxpool.Pool, version int, sql string) (bool, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	// Две реплики могут стартовать одновременно: миграции идут по одной
	if _, err := tx.Exec(ctx, `LOCK TABLE schema_migrations IN EXCLUSIVE MODE`); err != nil {
		return false, fmt.Errorf("ошибка блокировки schema_migrations: %w", err)
	}

	var exists bool
	err = tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", version,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки миграции: %w", err)
	}
	if exists {
		return false, nil
	}

	if _, err := tx.Exec(ctx, sql); err != nil {
		return false, fmt.Errorf("ошибка выполнения миграции %d: %w", version, err)
	}

	if _, err := tx.Exec(ctx,
		"INSERT INTO schema_migrations (version) VALUES ($1)", version,
	); err != nil {
		return false, fmt.Errorf("ошибка записи версии миграции: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("ошибка фиксации миграции %d: %w", version, err)
	}
	return true, nil
}
