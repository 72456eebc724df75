// Package quests — analytics.go собирает сводки дня, месяца и года.
// Функции чистые: на вход квесты или агрегаты из БД, на выход сводка.
package quests

import (
	"time"

	"serotonyl.ru/quest-bot/internal/common"
)

// BuildDailyQuest собирает сводку дня из списка квестов.
// AllDone — есть хотя бы один квест и все выполнены.
func BuildDailyQuest(quests []*Quest, now time.Time) *DailyQuest {
	dq := &DailyQuest{
		Date:          common.StartOfDay(now),
		Quests:        quests,
		TimeRemaining: common.UntilMidnight(now),
	}
	for _, q := range quests {
		dq.PotentialPoints += q.Points
		if q.Completed {
			dq.Completed++
			dq.RewardPoints += q.Points
		}
	}
	if len(quests) > 0 {
		dq.CompletionRate = float64(dq.Completed) / float64(len(quests)) * 100
		dq.AllDone = dq.Completed == len(quests)
	}
	return dq
}

// SummarizeMonth считает аналитику месяца. Учитываются только дни
// этого месяца, в которых был хотя бы один квест.
// Лучший день — с максимальным процентом, при равенстве более ранний.
func SummarizeMonth(year int, month time.Month, days []DaySummary) MonthSummary {
	ms := MonthSummary{Year: year, Month: month}

	var rateSum float64
	for i := range days {
		d := days[i]
		if d.Date.Year() != year || d.Date.Month() != month || d.TotalTasks <= 0 {
			continue
		}
		ms.Days++
		ms.TotalTasks += d.TotalTasks
		ms.CompletedTasks += d.CompletedTasks
		ms.TotalPoints += d.PointsEarned
		rateSum += d.CompletionRate()

		if ms.BestDay == nil || d.CompletionRate() > ms.BestDay.CompletionRate() ||
			(d.CompletionRate() == ms.BestDay.CompletionRate() && d.Date.Before(ms.BestDay.Date)) {
			best := d
			ms.BestDay = &best
		}
	}
	if ms.Days > 0 {
		ms.AvgCompletion = rateSum / float64(ms.Days)
	}
	return ms
}

// SummarizeYear раскладывает дни года по месяцам.
func SummarizeYear(year int, days []DaySummary) YearSummary {
	ys := YearSummary{Year: year}
	for m := time.January; m <= time.December; m++ {
		ms := SummarizeMonth(year, m, days)
		ys.Months[m-1] = ms
		ys.CompletedTasks += ms.CompletedTasks
		ys.TotalTasks += ms.TotalTasks
		ys.TotalPoints += ms.TotalPoints
		ys.ActiveDays += ms.Days
	}
	return ys
}
