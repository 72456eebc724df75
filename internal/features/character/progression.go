// Package character — progression.go переводит накопленный опыт в уровень и прогресс уровня.
// Все функции чистые: никакого состояния, никакого I/O. Сервис читает снимок из БД,
// вызывает их и пишет результат обратно.
package character

import (
	"math"
)

// levelRequirements — сколько опыта (суммарно) нужно для уровней 2..10.
// Индекс = уровень. Уровни 0 и 1 стартовые и стоят 0.
var levelRequirements = [...]int64{
	0:  0,
	1:  0,
	2:  100,
	3:  250,
	4:  500,
	5:  1000,
	6:  2000,
	7:  3500,
	8:  5500,
	9:  8000,
	10: 11000,
}

const (
	// tableMaxLevel — последний уровень из таблицы, дальше экстраполяция
	tableMaxLevel = 10
	// growthFactor — во сколько раз дорожает каждый уровень после 10-го
	growthFactor = 1.5
)

// MaxLevel — последний уровень, требование которого ещё помещается в int64.
// Выше этого уровня LevelFromTotalPoints не поднимается.
var MaxLevel = computeMaxLevel()

func computeMaxLevel() int {
	level := tableMaxLevel
	for float64(levelRequirements[tableMaxLevel])*math.Pow(growthFactor, float64(level+1-tableMaxLevel)) < math.MaxInt64/2 {
		level++
	}
	return level
}

// PointsRequiredForLevel возвращает суммарный опыт, с которого начинается уровень.
//
//	PointsRequiredForLevel(1)  → 0
//	PointsRequiredForLevel(2)  → 100
//	PointsRequiredForLevel(10) → 11000
//	PointsRequiredForLevel(11) → 16500 (11000 * 1.5)
func PointsRequiredForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	if level <= tableMaxLevel {
		return levelRequirements[level]
	}
	if level > MaxLevel {
		return math.MaxInt64
	}
	base := float64(levelRequirements[tableMaxLevel])
	return int64(math.Floor(base * math.Pow(growthFactor, float64(level-tableMaxLevel))))
}

// LevelFromTotalPoints возвращает наибольший уровень L, для которого
// PointsRequiredForLevel(L) <= totalPoints. Сканирует вверх от первого уровня.
func LevelFromTotalPoints(totalPoints int64) int {
	level := 1
	for level < MaxLevel && PointsRequiredForLevel(level+1) <= totalPoints {
		level++
	}
	return level
}

// LevelProgress — данные для полоски прогресса уровня. Не хранится, всегда пересчитывается.
type LevelProgress struct {
	CurrentLevel             int
	PointsIntoCurrentLevel   int64
	PointsNeededForNextLevel int64
	Percentage               float64 // 0..100
}

// PointsToNextLevel — сколько опыта осталось до следующего уровня.
func (p LevelProgress) PointsToNextLevel() int64 {
	left := p.PointsNeededForNextLevel - p.PointsIntoCurrentLevel
	if left < 0 {
		return 0
	}
	return left
}

// CalculateLevelProgress проецирует опыт на переданный уровень без пересчёта уровня.
// Уровень может быть «оптимистичным» (ещё не сохранённым), поэтому процент
// при несогласованных данных только обрезается до [0, 100].
func CalculateLevelProgress(totalPoints int64, level int) LevelProgress {
	current := PointsRequiredForLevel(level)
	next := PointsRequiredForLevel(level + 1)

	into := totalPoints - current
	needed := next - current

	return LevelProgress{
		CurrentLevel:             level,
		PointsIntoCurrentLevel:   into,
		PointsNeededForNextLevel: needed,
		Percentage:               percentage(into, needed),
	}
}

// percentage считает долю into/needed в процентах, обрезая до [0, 100].
// Нулевой делитель = уровень «закрыт», отдаём 100.
func percentage(into, needed int64) float64 {
	if needed <= 0 {
		return 100
	}
	p := float64(into) / float64(needed) * 100
	switch {
	case math.IsNaN(p):
		return 0
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
