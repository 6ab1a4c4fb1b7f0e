// internal/services/rewards_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightpulse/backend/internal/models"
)

func promotionTiers() []models.RewardTier {
	tier := func(name string, threshold int64) models.RewardTier {
		t := models.RewardTier{Name: name, PointsThreshold: threshold}
		t.ID = uuid.New()
		return t
	}
	return []models.RewardTier{
		tier("Bronze", 0),
		tier("Silver", 1000),
		tier("Gold", 5000),
		tier("Platinum", 15000),
	}
}

func TestPromotionFiresOnThresholdCross(t *testing.T) {
	tiers := promotionTiers()
	user := &models.User{Points: 900}
	user.ID = uuid.New()

	p := promotionFor(tiers, user, 1050)
	require.NotNil(t, p)
	assert.Equal(t, "Silver", p.Tier.Name)
	assert.Equal(t, int64(1050), p.User.Points)
	assert.Equal(t, user.ID, p.User.ID)
}

func TestNoPromotionWithinSameTier(t *testing.T) {
	tiers := promotionTiers()
	user := &models.User{Points: 1200}
	user.ID = uuid.New()

	assert.Nil(t, promotionFor(tiers, user, 1500))
}

// Awards that skip a tier entirely still promote to the highest reached one.
func TestPromotionSkipsIntermediateTier(t *testing.T) {
	tiers := promotionTiers()
	user := &models.User{Points: 100}
	user.ID = uuid.New()

	p := promotionFor(tiers, user, 6000)
	require.NotNil(t, p)
	assert.Equal(t, "Gold", p.Tier.Name)
}

// The promotion carries a copy of the user; sending it is the caller's job
// once its transaction commits, so the value must not alias live state.
func TestPromotionCopiesUser(t *testing.T) {
	tiers := promotionTiers()
	user := &models.User{Points: 900, Username: "dj_era"}
	user.ID = uuid.New()

	p := promotionFor(tiers, user, 1050)
	require.NotNil(t, p)

	user.Username = "renamed"
	assert.Equal(t, "dj_era", p.User.Username)
}
