// Package hydration — models.go описывает запись гидратации в БД.
package hydration

import "time"

const (
	// MaxLogLitres — максимум за одну отметку
	MaxLogLitres = 5.0
	// MinGoalLitres, MaxGoalLitres — допустимая дневная норма
	MinGoalLitres = 0.5
	MaxGoalLitres = 10.0
)

// Record — строка таблицы hydration.
type Record struct {
	UserID        int64     `db:"user_id"`
	State         State     // today_total_litres, daily_goal_litres, streak_days, last_ack, last_goal_completed
	LongestStreak int       `db:"longest_streak"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// LogOutcome — результат отметки для обработчика.
type LogOutcome struct {
	Result
	LongestStreak int
	BonusPoints   int64 // Сколько опыта начислено (0, если не начислено)
	LeveledUp     bool
	NewLevel      int
}

// Reminder — пользователь, которому пора напомнить о воде.
type Reminder struct {
	UserID int64
	State  State
}
