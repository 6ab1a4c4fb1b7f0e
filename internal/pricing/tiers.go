// internal/pricing/tiers.go
package pricing

import (
	"sort"

	"github.com/nightpulse/backend/internal/models"
)

// ResolveTier returns the highest tier whose threshold is at or below the
// user's cumulative points. ok is false when the points fall below every
// threshold; callers render that as "no tier" rather than defaulting to the
// first one.
func ResolveTier(tiers []models.RewardTier, points int64) (tier models.RewardTier, ok bool) {
	sorted := make([]models.RewardTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PointsThreshold < sorted[j].PointsThreshold
	})

	for _, t := range sorted {
		if points >= t.PointsThreshold {
			tier = t
			ok = true
		}
	}
	return tier, ok
}

// NextTier returns the first tier strictly above the user's points, if any.
func NextTier(tiers []models.RewardTier, points int64) (tier models.RewardTier, ok bool) {
	sorted := make([]models.RewardTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PointsThreshold < sorted[j].PointsThreshold
	})

	for _, t := range sorted {
		if t.PointsThreshold > points {
			return t, true
		}
	}
	return models.RewardTier{}, false
}
