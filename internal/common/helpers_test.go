package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPluralizeDays(t *testing.T) {
	cases := map[int]string{
		0: "дней", 1: "день", 2: "дня", 4: "дня", 5: "дней",
		11: "дней", 12: "дней", 14: "дней", 21: "день", 22: "дня", 111: "дней", -1: "день",
	}
	for n, want := range cases {
		assert.Equal(t, want, PluralizeDays(n), "n=%d", n)
	}
}

func TestPluralizeQuests(t *testing.T) {
	assert.Equal(t, "квест", PluralizeQuests(1))
	assert.Equal(t, "квеста", PluralizeQuests(3))
	assert.Equal(t, "квестов", PluralizeQuests(7))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "2 350", FormatNumber(2350))
	assert.Equal(t, "1 000 000", FormatNumber(1000000))
	assert.Equal(t, "-16 500", FormatNumber(-16500))
	assert.Equal(t, "+1 500 XP", FormatXPAmount(1500))
}

func TestFormatLitres(t *testing.T) {
	assert.Equal(t, "2", FormatLitres(2))
	assert.Equal(t, "0", FormatLitres(0))
	assert.Equal(t, "0.25", FormatLitres(0.25))
	assert.Equal(t, "2.1", FormatLitres(1.5+0.6))
	assert.Equal(t, "10", FormatLitres(10))
}

func TestParseLitres(t *testing.T) {
	cases := map[string]float64{
		"0.5":    0.5,
		"0,25":   0.25,
		" 1 ":    1,
		"1л":     1,
		"500мл":  0.5,
		"250 ml": 0.25,
		"2L":     2,
	}
	for raw, want := range cases {
		got, err := ParseLitres(raw)
		require.NoError(t, err, raw)
		assert.InDelta(t, want, got, 1e-9, raw)
	}

	_, err := ParseLitres("много")
	assert.Error(t, err)
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "▰▰▰▰▰▱▱▱▱▱", ProgressBar(50, 10))
	assert.Equal(t, "▱▱▱▱", ProgressBar(-5, 4))
	assert.Equal(t, "▰▰▰▰", ProgressBar(250, 4))
	assert.Equal(t, "", ProgressBar(50, 0))
}

func TestClockAndDays(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	now := time.Date(2026, 3, 14, 22, 30, 15, 0, loc)
	clock := NewFixedClock(now)

	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, loc), clock.Today())
	assert.Equal(t, 90*time.Minute-15*time.Second, UntilMidnight(now))
	assert.Equal(t, "01:29:45", FormatDuration(UntilMidnight(now)))
	assert.Equal(t, "14.03.2026", FormatDate(now))
	assert.Equal(t, "Март", MonthName(time.March))
	assert.Equal(t, "", MonthName(0))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Имя героя", Capitalize("имя героя"))
	assert.Equal(t, "", Capitalize(""))
	assert.Equal(t, "Ok", Capitalize("ok"))
}
