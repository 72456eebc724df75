// Package hydration — repository.go выполняет операции с таблицей hydration.
package hydration

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository предоставляет методы для работы с таблицей hydration.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий гидратации.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const recordColumns = `
	user_id, today_total_litres, daily_goal_litres, streak_days, longest_streak,
	last_ack, last_goal_completed, updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var r Record
	err := row.Scan(
		&r.UserID, &r.State.TodayTotalLitres, &r.State.DailyGoalLitres,
		&r.State.StreakDays, &r.LongestStreak,
		&r.State.LastAck, &r.State.LastGoalCompleted, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Get возвращает запись. Если пользователь ещё не пил — запись по умолчанию.
func (r *Repository) Get(ctx context.Context, userID int64, defaultGoal float64) (*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM hydration WHERE user_id = $1`
	rec, err := scanRecord(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &Record{UserID: userID, State: State{DailyGoalLitres: defaultGoal}}, nil
		}
		return nil, fmt.Errorf("ошибка чтения гидратации (user_id=%d): %w", userID, err)
	}
	return rec, nil
}

// Update выполняет read-modify-write под блокировкой строки.
// Строка создаётся при первом обращении.
func (r *Repository) Update(ctx context.Context, userID int64, defaultGoal float64, fn func(rec *Record) error) (*Record, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO hydration (user_id, daily_goal_litres)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, defaultGoal)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания записи гидратации: %w", err)
	}

	rec, err := scanRecord(tx.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM hydration WHERE user_id = $1 FOR UPDATE`, userID))
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения гидратации: %w", err)
	}

	if err := fn(rec); err != nil {
		return nil, err
	}

	err = tx.QueryRow(ctx, `
		UPDATE hydration
		SET today_total_litres = $2, daily_goal_litres = $3, streak_days = $4,
		    longest_streak = $5, last_ack = $6, last_goal_completed = $7, updated_at = NOW()
		WHERE user_id = $1
		RETURNING updated_at
	`, userID, rec.State.TodayTotalLitres, rec.State.DailyGoalLitres, rec.State.StreakDays,
		rec.LongestStreak, rec.State.LastAck, rec.State.LastGoalCompleted,
	).Scan(&rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("ошибка обновления гидратации: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return rec, nil
}

// ListReminderCandidates возвращает всех пользователей с включёнными уведомлениями
// вместе с их гидратацией (или значениями по умолчанию).
func (r *Repository) ListReminderCandidates(ctx context.Context, defaultGoal float64) ([]*Record, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.user_id,
		       COALESCE(h.today_total_litres, 0),
		       COALESCE(h.daily_goal_litres, $1),
		       COALESCE(h.streak_days, 0),
		       COALESCE(h.longest_streak, 0),
		       h.last_ack,
		       h.last_goal_completed,
		       COALESCE(h.updated_at, p.created_at)
		FROM profiles p
		LEFT JOIN hydration h ON h.user_id = p.user_id
		WHERE p.notifications = TRUE
		ORDER BY p.user_id
	`, defaultGoal)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса кандидатов напоминаний: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения гидратации: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
