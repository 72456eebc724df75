// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: русская плюрализация, форматирование чисел, работа с временем.
package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// pluralize выбирает форму слова для числа n по правилам русского языка.
//
//   - n%10==1 И n%100!=11 → one (1, 21, 31, 101, ...)
//   - n%10 в [2,3,4] И n%100 НЕ в [12,13,14] → few (2, 3, 4, 22, 23, ...)
//   - Остальные случаи → many (0, 5-20, 25-30, 100, ...)
func pluralize(n int64, one, few, many string) string {
	if n < 0 {
		n = -n
	}
	lastDigit := n % 10
	lastTwoDigits := n % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return one
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return few
	}
	return many
}

// PluralizeDays возвращает правильную форму слова «день» для числа n.
//
// Примеры:
//
//	PluralizeDays(1)  → "день"
//	PluralizeDays(3)  → "дня"
//	PluralizeDays(11) → "дней"
func PluralizeDays(n int) string {
	return pluralize(int64(n), "день", "дня", "дней")
}

// PluralizeQuests возвращает правильную форму слова «квест».
func PluralizeQuests(n int) string {
	return pluralize(int64(n), "квест", "квеста", "квестов")
}

// FormatXP форматирует очки опыта: FormatXP(1500) → "1 500 XP".
func FormatXP(points int64) string {
	return FormatNumber(points) + " XP"
}

// FormatXPAmount создаёт строку вида "+100 XP".
func FormatXPAmount(points int64) string {
	if points >= 0 {
		return "+" + FormatXP(points)
	}
	return FormatXP(points)
}

// FormatNumber форматирует число с разделителями тысяч (пробелами).
// Пример: FormatNumber(2350) → "2 350"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	if n < 1000 {
		return strconv.FormatInt(n, 10)
	}
	return fmt.Sprintf("%s %03d", FormatNumber(n/1000), n%1000)
}

// FormatLitres форматирует объём без лишних нулей: 2 → "2", 0.25 → "0.25", 1.5 → "1.5".
func FormatLitres(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// ParseLitres разбирает объём, введённый пользователем. Принимает и "0,5", и "0.5", и "500мл".
func ParseLitres(raw string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, ",", ".")

	scale := 1.0
	switch {
	case strings.HasSuffix(s, "мл"):
		s = strings.TrimSuffix(s, "мл")
		scale = 0.001
	case strings.HasSuffix(s, "ml"):
		s = strings.TrimSuffix(s, "ml")
		scale = 0.001
	case strings.HasSuffix(s, "л"):
		s = strings.TrimSuffix(s, "л")
	case strings.HasSuffix(s, "l"):
		s = strings.TrimSuffix(s, "l")
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("не число %q: %w", raw, err)
	}
	return v * scale, nil
}

// ProgressBar рисует полоску прогресса из count клеток: ProgressBar(50, 10) → "▰▰▰▰▰▱▱▱▱▱".
func ProgressBar(percentage float64, count int) string {
	if count <= 0 {
		return ""
	}
	if math.IsNaN(percentage) || percentage < 0 {
		percentage = 0
	}
	filled := int(percentage / 100 * float64(count))
	if filled > count {
		filled = count
	}
	return strings.Repeat("▰", filled) + strings.Repeat("▱", count-filled)
}

// Clock — источник текущего времени в часовом поясе приложения.
// Все границы дня (квесты, вода) считаются по нему.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock создаёт часы в заданной зоне.
func NewClock(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{loc: loc, now: time.Now}
}

// NewFixedClock возвращает часы, которые всегда показывают t. Для тестов.
func NewFixedClock(t time.Time) *Clock {
	return &Clock{loc: t.Location(), now: func() time.Time { return t }}
}

// Now возвращает текущее время в зоне приложения.
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today возвращает полночь текущего дня.
func (c *Clock) Today() time.Time {
	return StartOfDay(c.Now())
}

// Location возвращает часовой пояс часов.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// StartOfDay обрезает время до полуночи в зоне t.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// UntilMidnight — сколько осталось до конца дня t.
func UntilMidnight(t time.Time) time.Duration {
	return StartOfDay(t).AddDate(0, 0, 1).Sub(t)
}

// FormatDate форматирует дату в "02.01.2006".
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// FormatDuration форматирует длительность в "ЧЧ:ММ:СС".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// MonthName возвращает название месяца в именительном падеже.
func MonthName(m time.Month) string {
	names := [...]string{
		"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
		"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
	}
	if m < time.January || m > time.December {
		return ""
	}
	return names[m-1]
}

// Capitalize делает первую букву заглавной: текст ошибки → сообщение пользователю.
func Capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
