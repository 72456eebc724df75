// Package character — rank.go определяет ранги охотника по суммарному опыту.
package character

// Rank — буквенный ранг: E < D < C < B < A < S < SS < SSS.
type Rank string

const (
	RankE   Rank = "E"
	RankD   Rank = "D"
	RankC   Rank = "C"
	RankB   Rank = "B"
	RankA   Rank = "A"
	RankS   Rank = "S"
	RankSS  Rank = "SS"
	RankSSS Rank = "SSS"
)

// rankTier — ранг и порог опыта, с которого он начинается.
type rankTier struct {
	Rank      Rank
	Threshold int64
}

// rankTiers упорядочены по возрастанию порога.
var rankTiers = []rankTier{
	{RankE, 0},
	{RankD, 1000},
	{RankC, 5000},
	{RankB, 10000},
	{RankA, 25000},
	{RankS, 50000},
	{RankSS, 100000},
	{RankSSS, 200000},
}

// RankFromTotalPoints возвращает старший ранг, порог которого <= totalPoints.
func RankFromTotalPoints(totalPoints int64) Rank {
	rank := RankE
	for _, tier := range rankTiers {
		if totalPoints < tier.Threshold {
			break
		}
		rank = tier.Rank
	}
	return rank
}

// NextRankThreshold возвращает следующий ранг и его порог.
// ok=false, если ранг уже максимальный.
func NextRankThreshold(totalPoints int64) (Rank, int64, bool) {
	for _, tier := range rankTiers {
		if totalPoints < tier.Threshold {
			return tier.Rank, tier.Threshold, true
		}
	}
	return "", 0, false
}

// Index — порядковый номер ранга (E = 0). Неизвестный ранг = -1.
func (r Rank) Index() int {
	for i, tier := range rankTiers {
		if tier.Rank == r {
			return i
		}
	}
	return -1
}

// Valid сообщает, известен ли ранг.
func (r Rank) Valid() bool {
	return r.Index() >= 0
}
