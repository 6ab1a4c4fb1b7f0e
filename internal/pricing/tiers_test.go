// internal/pricing/tiers_test.go
package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightpulse/backend/internal/models"
)

func testTiers() []models.RewardTier {
	return []models.RewardTier{
		{Name: "Bronze", PointsThreshold: 0},
		{Name: "Silver", PointsThreshold: 1000},
		{Name: "Gold", PointsThreshold: 5000},
		{Name: "Platinum", PointsThreshold: 15000},
	}
}

func TestResolveTierPicksHighestReached(t *testing.T) {
	tiers := testTiers()

	cases := []struct {
		points int64
		name   string
	}{
		{0, "Bronze"},
		{999, "Bronze"},
		{1000, "Silver"},
		{4200, "Silver"},
		{5000, "Gold"},
		{14999, "Gold"},
		{15000, "Platinum"},
		{1000000, "Platinum"},
	}

	for _, tc := range cases {
		tier, ok := ResolveTier(tiers, tc.points)
		require.True(t, ok, "points %d", tc.points)
		assert.Equal(t, tc.name, tier.Name, "points %d", tc.points)
	}
}

func TestResolveTierBelowAllThresholds(t *testing.T) {
	tiers := []models.RewardTier{
		{Name: "Silver", PointsThreshold: 1000},
		{Name: "Gold", PointsThreshold: 5000},
	}

	_, ok := ResolveTier(tiers, 500)
	assert.False(t, ok)
}

func TestResolveTierIsMonotonic(t *testing.T) {
	tiers := testTiers()

	var lastThreshold int64 = -1
	for points := int64(0); points <= 20000; points += 137 {
		tier, ok := ResolveTier(tiers, points)
		require.True(t, ok)
		assert.GreaterOrEqual(t, tier.PointsThreshold, lastThreshold)
		lastThreshold = tier.PointsThreshold
	}
}

func TestResolveTierIgnoresInputOrder(t *testing.T) {
	shuffled := []models.RewardTier{
		{Name: "Platinum", PointsThreshold: 15000},
		{Name: "Bronze", PointsThreshold: 0},
		{Name: "Gold", PointsThreshold: 5000},
		{Name: "Silver", PointsThreshold: 1000},
	}

	tier, ok := ResolveTier(shuffled, 4200)
	require.True(t, ok)
	assert.Equal(t, "Silver", tier.Name)
}

func TestNextTier(t *testing.T) {
	tiers := testTiers()

	next, ok := NextTier(tiers, 4200)
	require.True(t, ok)
	assert.Equal(t, "Gold", next.Name)

	_, ok = NextTier(tiers, 15000)
	assert.False(t, ok)
}
