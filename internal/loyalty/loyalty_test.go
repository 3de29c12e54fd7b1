package loyalty

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTier(t *testing.T) {
	cases := []struct {
		points int
		want   string
	}{
		{0, TierBronze},
		{499, TierBronze},
		{500, TierSilver},
		{1499, TierSilver},
		{1500, TierGold},
		{4999, TierGold},
		{5000, TierPlatinum},
		{12000, TierPlatinum},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Tier(tc.points), "points=%d", tc.points)
	}
}

func TestPointsToNextTier(t *testing.T) {
	cases := []struct {
		points int
		want   int
	}{
		{0, 500},
		{499, 1},
		{500, 1000},
		{1500, 3500},
		{4999, 1},
	}
	for _, tc := range cases {
		got := PointsToNextTier(tc.points)
		if assert.NotNil(t, got, "points=%d", tc.points) {
			assert.Equal(t, tc.want, *got, "points=%d", tc.points)
		}
	}

	assert.Nil(t, PointsToNextTier(5000), "platinum has no next tier")
}
