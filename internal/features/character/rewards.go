// Package character — rewards.go содержит цену квестов и начисление опыта.
package character

import (
	"math"
	"strings"
)

// Difficulty — сложность квеста.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// difficultyBase — базовая награда за квест по сложности.
var difficultyBase = map[Difficulty]int64{
	DifficultyEasy:   10,
	DifficultyMedium: 50,
	DifficultyHard:   100,
}

// maxGoalMultiplier — потолок множителя за размер цели.
const maxGoalMultiplier = 2.0

// ParseDifficulty понимает английские и русские названия: easy/лёгкий, medium/средний, hard/сложный.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "легкий", "лёгкий", "легко", "л":
		return DifficultyEasy, true
	case "medium", "средний", "средне", "с":
		return DifficultyMedium, true
	case "hard", "сложный", "сложно", "тяжелый", "тяжёлый", "т":
		return DifficultyHard, true
	}
	return "", false
}

// Valid сообщает, известна ли сложность.
func (d Difficulty) Valid() bool {
	_, ok := difficultyBase[d]
	return ok
}

// PointsForCompletedTask — единственное правило цены квеста:
// база по сложности × min(goal/10, 2), с округлением вниз.
//
//	PointsForCompletedTask(medium, 10) → 50  (множитель 1)
//	PointsForCompletedTask(hard, 40)   → 200 (множитель упёрся в 2)
//	PointsForCompletedTask(easy, 5)    → 5   (множитель 0.5)
func PointsForCompletedTask(difficulty Difficulty, goalMagnitude int) int64 {
	base, ok := difficultyBase[difficulty]
	if !ok || goalMagnitude <= 0 {
		return 0
	}
	multiplier := math.Min(float64(goalMagnitude)/10, maxGoalMultiplier)
	return int64(math.Floor(float64(base) * multiplier))
}

// Progression — производное состояние прогресса: уровень и ранг
// никогда не меняются отдельно от суммарного опыта.
type Progression struct {
	TotalPoints int64
	Level       int
	Rank        Rank
}

// NewProgression выводит уровень и ранг из суммарного опыта.
func NewProgression(totalPoints int64) Progression {
	if totalPoints < 0 {
		totalPoints = 0
	}
	return Progression{
		TotalPoints: totalPoints,
		Level:       LevelFromTotalPoints(totalPoints),
		Rank:        RankFromTotalPoints(totalPoints),
	}
}

// Progress возвращает полоску прогресса для текущего уровня.
func (p Progression) Progress() LevelProgress {
	return CalculateLevelProgress(p.TotalPoints, p.Level)
}

// AwardResult — результат начисления опыта.
type AwardResult struct {
	Before      Progression
	After       Progression
	Points      int64
	LeveledUp   bool
	RankChanged bool
}

// Award начисляет опыт и пересчитывает уровень и ранг.
// Переполнение int64 упирается в MaxInt64.
func (p Progression) Award(points int64) AwardResult {
	total := p.TotalPoints
	if points > 0 {
		if total > math.MaxInt64-points {
			total = math.MaxInt64
		} else {
			total += points
		}
	}
	after := NewProgression(total)
	return AwardResult{
		Before:      p,
		After:       after,
		Points:      after.TotalPoints - p.TotalPoints,
		LeveledUp:   after.Level > p.Level,
		RankChanged: after.Rank != p.Rank,
	}
}
