package quotes

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDailyQuote_StableForWholeDay(t *testing.T) {
	morning := time.Date(2026, 5, 3, 7, 0, 0, 0, time.UTC)
	night := time.Date(2026, 5, 3, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, DailyQuote(PersonalityFitness, morning), DailyQuote(PersonalityFitness, night))
}

func TestDailyQuote_Seed(t *testing.T) {
	day := time.Date(2026, 5, 3, 12, 0, 0, 0, time.UTC)
	// 2026 + 4 + 3 = 2033, 2033 % 4 = 1
	assert.Equal(t, daily[PersonalityGeneral][1], DailyQuote(PersonalityGeneral, day))
}

func TestDailyQuote_UnknownFallsBackToGeneral(t *testing.T) {
	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, DailyQuote(PersonalityGeneral, day), DailyQuote(Personality("pirate"), day))
}

func TestParsePersonality(t *testing.T) {
	p, ok := ParsePersonality(" Hustler ")
	assert.True(t, ok)
	assert.Equal(t, PersonalityHustler, p)

	_, ok = ParsePersonality("pirate")
	assert.False(t, ok)

	for _, p := range All() {
		assert.NotEmpty(t, daily[p], p)
	}
}

func TestHydrationQuote(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		assert.Contains(t, hydration, HydrationQuote(rnd))
	}
	assert.Contains(t, hydration, HydrationQuote(nil))
}
