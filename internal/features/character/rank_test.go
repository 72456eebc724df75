package character

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankFromTotalPoints(t *testing.T) {
	cases := []struct {
		total int64
		want  Rank
	}{
		{-1, RankE},
		{0, RankE},
		{999, RankE},
		{1000, RankD},
		{4999, RankD},
		{5000, RankC},
		{10000, RankB},
		{25000, RankA},
		{49999, RankA},
		{50000, RankS},
		{100000, RankSS},
		{199999, RankSS},
		{200000, RankSSS},
		{10_000_000, RankSSS},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RankFromTotalPoints(tc.total), "total=%d", tc.total)
	}
}

func TestRankFromTotalPoints_Monotonic(t *testing.T) {
	prev := RankFromTotalPoints(0).Index()
	for total := int64(0); total <= 250000; total += 250 {
		idx := RankFromTotalPoints(total).Index()
		assert.GreaterOrEqual(t, idx, prev, "total=%d", total)
		assert.Equal(t, RankFromTotalPoints(total), RankFromTotalPoints(total))
		prev = idx
	}
}

func TestNextRankThreshold(t *testing.T) {
	rank, threshold, ok := NextRankThreshold(1200)
	assert.True(t, ok)
	assert.Equal(t, RankC, rank)
	assert.Equal(t, int64(5000), threshold)

	_, _, ok = NextRankThreshold(200000)
	assert.False(t, ok)
}

func TestRankIndex(t *testing.T) {
	assert.Equal(t, 0, RankE.Index())
	assert.Equal(t, 7, RankSSS.Index())
	assert.False(t, Rank("Z").Valid())
	assert.True(t, RankSS.Valid())
}
