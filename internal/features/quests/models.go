// Package quests — ежедневные квесты, дневник дня и аналитика по месяцам.
// models.go описывает структуры данных.
package quests

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"serotonyl.ru/quest-bot/internal/features/character"
)

// Category — категория квеста.
type Category string

const (
	CategoryHealth   Category = "health"
	CategoryWork     Category = "work"
	CategoryLearning Category = "learning"
	CategorySocial   Category = "social"
	CategoryCreative Category = "creative"
	CategoryOther    Category = "other"
)

var categoryAliases = map[string]Category{
	"health": CategoryHealth, "здоровье": CategoryHealth,
	"work": CategoryWork, "работа": CategoryWork,
	"learning": CategoryLearning, "учёба": CategoryLearning, "учеба": CategoryLearning,
	"social": CategorySocial, "общение": CategorySocial,
	"creative": CategoryCreative, "творчество": CategoryCreative,
	"other": CategoryOther, "другое": CategoryOther,
}

var categoryIcons = map[Category]string{
	CategoryHealth:   "❤️",
	CategoryWork:     "💼",
	CategoryLearning: "📚",
	CategorySocial:   "🤝",
	CategoryCreative: "🎨",
	CategoryOther:    "📌",
}

// ParseCategory разбирает категорию (англ. или рус.).
func ParseCategory(s string) (Category, bool) {
	c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}

// Icon возвращает эмодзи категории.
func (c Category) Icon() string {
	if icon, ok := categoryIcons[c]; ok {
		return icon
	}
	return categoryIcons[CategoryOther]
}

const (
	// maxTitleRunes — лимит длины названия квеста
	maxTitleRunes = 100
	// maxGoal — верхняя граница цели, чтобы прогресс не переполнялся
	maxGoal = 100000
)

// Quest — одна задача дня.
type Quest struct {
	ID         uuid.UUID            `db:"id"`
	UserID     int64                `db:"user_id"`
	Title      string               `db:"title"`
	Difficulty character.Difficulty `db:"difficulty"`
	Goal       int                  `db:"goal"`
	Progress   int                  `db:"progress"`
	Points     int64                `db:"points"` // Цена, рассчитанная при создании
	Category   Category             `db:"category"`
	Date       time.Time            `db:"quest_date"` // День квеста (полночь в зоне приложения)
	Completed  bool                 `db:"completed"`
	Rewarded   bool                 `db:"rewarded"` // Опыт за квест уже начислен
	CreatedAt  time.Time            `db:"created_at"`
}

// Percentage — доля выполнения квеста, 0..100.
func (q *Quest) Percentage() float64 {
	if q.Goal <= 0 {
		return 0
	}
	p := float64(q.Progress) / float64(q.Goal) * 100
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

// DailyQuest — сводка дня: все квесты, прогресс и награда.
type DailyQuest struct {
	Date            time.Time
	Quests          []*Quest
	Completed       int
	CompletionRate  float64       // 0..100
	RewardPoints    int64         // Сумма очков выполненных квестов
	PotentialPoints int64         // Сумма очков всех квестов
	TimeRemaining   time.Duration // До полуночи
	AllDone         bool
}

// DailyEntry — дневник дня.
type DailyEntry struct {
	ID        uuid.UUID `db:"id"`
	UserID    int64     `db:"user_id"`
	Date      time.Time `db:"entry_date"`
	Notes     string    `db:"notes"`
	Mood      string    `db:"mood"`
	Memories  string    `db:"memories"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// JournalField — какое поле дневника обновляется.
type JournalField string

const (
	FieldNotes    JournalField = "notes"
	FieldMood     JournalField = "mood"
	FieldMemories JournalField = "memories"
)

// Moods — настроения, которые предлагает бот.
var Moods = []string{"😊", "😢", "😴", "🔥", "😌", "🤔"}

// DaySummary — агрегат одного дня, считается SQL-запросом.
type DaySummary struct {
	Date           time.Time
	TotalTasks     int
	CompletedTasks int
	PointsEarned   int64
}

// CompletionRate — процент выполненных квестов за день.
func (d DaySummary) CompletionRate() float64 {
	if d.TotalTasks <= 0 {
		return 0
	}
	return float64(d.CompletedTasks) / float64(d.TotalTasks) * 100
}

// MonthSummary — аналитика месяца по дням, в которые были квесты.
type MonthSummary struct {
	Year           int
	Month          time.Month
	AvgCompletion  float64
	CompletedTasks int
	TotalTasks     int
	TotalPoints    int64
	BestDay        *DaySummary
	Days           int
}

// YearSummary — аналитика года помесячно.
type YearSummary struct {
	Year           int
	Months         [12]MonthSummary
	CompletedTasks int
	TotalTasks     int
	TotalPoints    int64
	ActiveDays     int
}

// ToggleResult — итог отметки квеста.
type ToggleResult struct {
	Quest      *Quest
	JustDone   bool // Квест только что выполнен
	Award      *character.AwardResult
	DailyQuest *DailyQuest
}
