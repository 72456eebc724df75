// Package quests — repository.go выполняет операции с таблицами quests и daily_entries.
// Квесты адресуются номером в списке дня, поэтому изменения идут под блокировкой
// всех квестов пользователя за этот день.
package quests

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/quest-bot/internal/common"
	"serotonyl.ru/quest-bot/internal/features/character"
)

// Repository предоставляет методы для работы с квестами и дневником.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий квестов.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const questColumns = `
	id, user_id, title, difficulty, goal, progress, points, category,
	quest_date, completed, rewarded, created_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuest(row rowScanner) (*Quest, error) {
	var (
		q          Quest
		difficulty string
		category   string
	)
	err := row.Scan(
		&q.ID, &q.UserID, &q.Title, &difficulty, &q.Goal, &q.Progress, &q.Points, &category,
		&q.Date, &q.Completed, &q.Rewarded, &q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	q.Difficulty = character.Difficulty(difficulty)
	q.Category = Category(category)
	return &q, nil
}

// dateOnly — дата для колонки DATE (без сдвига зоны).
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Create сохраняет новый квест.
func (r *Repository) Create(ctx context.Context, q *Quest) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO quests (id, user_id, title, difficulty, goal, progress, points, category,
		                    quest_date, completed, rewarded)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`, q.ID, q.UserID, q.Title, string(q.Difficulty), q.Goal, q.Progress, q.Points,
		string(q.Category), dateOnly(q.Date), q.Completed, q.Rewarded,
	).Scan(&q.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания квеста: %w", err)
	}
	return nil
}

// ListByDate возвращает квесты дня в порядке создания.
func (r *Repository) ListByDate(ctx context.Context, userID int64, date time.Time) ([]*Quest, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+questColumns+`
		FROM quests
		WHERE user_id = $1 AND quest_date = $2
		ORDER BY created_at, id
	`, userID, dateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса квестов: %w", err)
	}
	return collectQuests(rows)
}

func collectQuests(rows pgx.Rows) ([]*Quest, error) {
	defer rows.Close()
	var out []*Quest
	for rows.Next() {
		q, err := scanQuest(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения квеста: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// lockDay блокирует квесты дня и возвращает их в порядке создания.
func lockDay(ctx context.Context, tx pgx.Tx, userID int64, date time.Time) ([]*Quest, error) {
	rows, err := tx.Query(ctx, `
		SELECT `+questColumns+`
		FROM quests
		WHERE user_id = $1 AND quest_date = $2
		ORDER BY created_at, id
		FOR UPDATE
	`, userID, dateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("ошибка блокировки квестов: %w", err)
	}
	return collectQuests(rows)
}

// Mutate меняет квест номер index (с 1) из списка дня под блокировкой.
// fn получает квест и весь список дня (уже с изменением после возврата).
func (r *Repository) Mutate(ctx context.Context, userID int64, date time.Time, index int,
	fn func(q *Quest) error) (*Quest, []*Quest, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	day, err := lockDay(ctx, tx, userID, date)
	if err != nil {
		return nil, nil, err
	}
	if index < 1 || index > len(day) {
		return nil, nil, common.ErrQuestNotFound
	}
	q := day[index-1]

	if err := fn(q); err != nil {
		return nil, nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE quests
		SET progress = $2, completed = $3, rewarded = $4
		WHERE id = $1
	`, q.ID, q.Progress, q.Completed, q.Rewarded)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка обновления квеста: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return q, day, nil
}

// DeleteByIndex удаляет квест номер index (с 1) из списка дня.
func (r *Repository) DeleteByIndex(ctx context.Context, userID int64, date time.Time, index int) (*Quest, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	day, err := lockDay(ctx, tx, userID, date)
	if err != nil {
		return nil, err
	}
	if index < 1 || index > len(day) {
		return nil, common.ErrQuestNotFound
	}
	q := day[index-1]

	if _, err := tx.Exec(ctx, `DELETE FROM quests WHERE id = $1`, q.ID); err != nil {
		return nil, fmt.Errorf("ошибка удаления квеста: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return q, nil
}

// DaySummaries агрегирует квесты по дням в диапазоне [from, to].
func (r *Repository) DaySummaries(ctx context.Context, userID int64, from, to time.Time) ([]DaySummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT quest_date,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE completed),
		       COALESCE(SUM(points) FILTER (WHERE completed), 0)
		FROM quests
		WHERE user_id = $1 AND quest_date BETWEEN $2 AND $3
		GROUP BY quest_date
		ORDER BY quest_date
	`, userID, dateOnly(from), dateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("ошибка агрегации квестов: %w", err)
	}
	defer rows.Close()

	var out []DaySummary
	for rows.Next() {
		var d DaySummary
		if err := rows.Scan(&d.Date, &d.TotalTasks, &d.CompletedTasks, &d.PointsEarned); err != nil {
			return nil, fmt.Errorf("ошибка чтения агрегата: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// journalColumns — поля дневника, которые можно обновлять.
var journalColumns = map[JournalField]string{
	FieldNotes:    "notes",
	FieldMood:     "mood",
	FieldMemories: "memories",
}

// UpsertJournal записывает одно поле дневника дня.
func (r *Repository) UpsertJournal(ctx context.Context, userID int64, date time.Time, field JournalField, value string) (*DailyEntry, error) {
	col, ok := journalColumns[field]
	if !ok {
		return nil, fmt.Errorf("неизвестное поле дневника: %s", field)
	}
	query := `
		INSERT INTO daily_entries (id, user_id, entry_date, ` + col + `)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, entry_date) DO UPDATE
		SET ` + col + ` = EXCLUDED.` + col + `, updated_at = NOW()
		RETURNING id, user_id, entry_date, notes, mood, memories, created_at, updated_at
	`
	var e DailyEntry
	err := r.db.QueryRow(ctx, query, uuid.New(), userID, dateOnly(date), value).Scan(
		&e.ID, &e.UserID, &e.Date, &e.Notes, &e.Mood, &e.Memories, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка записи дневника: %w", err)
	}
	return &e, nil
}

// GetJournal возвращает дневник дня или nil, если записей нет.
func (r *Repository) GetJournal(ctx context.Context, userID int64, date time.Time) (*DailyEntry, error) {
	var e DailyEntry
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, entry_date, notes, mood, memories, created_at, updated_at
		FROM daily_entries
		WHERE user_id = $1 AND entry_date = $2
	`, userID, dateOnly(date)).Scan(
		&e.ID, &e.UserID, &e.Date, &e.Notes, &e.Mood, &e.Memories, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка чтения дневника: %w", err)
	}
	return &e, nil
}
