// Package quests — pricing.go проверяет ввод, считает цену и применяет прогресс.
package quests

import (
	"strings"
	"unicode/utf8"

	"serotonyl.ru/quest-bot/internal/common"
	"serotonyl.ru/quest-bot/internal/features/character"
)

// NewQuestInput — данные для создания квеста.
type NewQuestInput struct {
	Title      string
	Difficulty character.Difficulty
	Goal       int
	Category   Category
}

// Validate проверяет ввод и нормализует название.
func (in *NewQuestInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	if n := utf8.RuneCountInString(in.Title); n == 0 || n > maxTitleRunes {
		return common.ErrInvalidQuestTitle
	}
	if in.Goal < 1 || in.Goal > maxGoal {
		return common.ErrInvalidQuestGoal
	}
	if !in.Difficulty.Valid() {
		return common.ErrUnknownDifficulty
	}
	if in.Category == "" {
		in.Category = CategoryOther
	}
	if _, ok := categoryIcons[in.Category]; !ok {
		return common.ErrUnknownCategory
	}
	return nil
}

// Price — награда за квест, фиксируется при создании.
func (in NewQuestInput) Price() int64 {
	return character.PointsForCompletedTask(in.Difficulty, in.Goal)
}

// ApplyProgress выставляет прогресс с ограничением [0, goal].
// Возвращает true, если квест стал выполненным именно сейчас.
func ApplyProgress(q *Quest, progress int) bool {
	if progress < 0 {
		progress = 0
	}
	if progress > q.Goal {
		progress = q.Goal
	}
	wasDone := q.Completed
	q.Progress = progress
	q.Completed = progress >= q.Goal
	return !wasDone && q.Completed
}

// ApplyToggle переключает выполнение: выполнить → прогресс = цель,
// снять → прогресс = min(прогресс, цель-1). Возвращает true при переходе в выполненный.
func ApplyToggle(q *Quest) bool {
	if q.Completed {
		q.Completed = false
		if q.Progress > q.Goal-1 {
			q.Progress = q.Goal - 1
		}
		if q.Progress < 0 {
			q.Progress = 0
		}
		return false
	}
	q.Completed = true
	q.Progress = q.Goal
	return true
}
