// internal/services/rewards_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/nightpulse/backend/internal/models"
	"github.com/nightpulse/backend/internal/pricing"
)

type RewardsService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewRewardsService(db *gorm.DB, notifications *NotificationService) *RewardsService {
	return &RewardsService{
		db:            db,
		notifications: notifications,
	}
}

func (s *RewardsService) ListTiers() ([]models.RewardTier, error) {
	var tiers []models.RewardTier
	if err := s.db.Preload("Benefits").Order("points_threshold ASC").Find(&tiers).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch tiers: %w", err)
	}
	return tiers, nil
}

// UserRewards is the loyalty summary a dashboard renders.
type UserRewards struct {
	Points       int64                  `json:"points"`
	Tier         *models.RewardTier     `json:"tier"`
	NextTier     *models.RewardTier     `json:"next_tier"`
	PointsToNext int64                  `json:"points_to_next"`
	Benefits     []models.RewardBenefit `json:"benefits"`
}

func (s *RewardsService) GetUserRewards(userID uuid.UUID) (*UserRewards, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	tiers, err := s.ListTiers()
	if err != nil {
		return nil, err
	}

	summary := &UserRewards{Points: user.Points}

	if tier, ok := pricing.ResolveTier(tiers, user.Points); ok {
		summary.Tier = &tier
		summary.Benefits = tier.Benefits
	}
	if next, ok := pricing.NextTier(tiers, user.Points); ok {
		summary.NextTier = &next
		summary.PointsToNext = next.PointsThreshold - user.Points
	}

	return summary, nil
}

// TierPromotion records a tier threshold crossed by a point award. The
// congratulation email is only sent once the awarding transaction commits;
// callers hand the value back to SendPromotion afterwards.
type TierPromotion struct {
	User models.User
	Tier models.RewardTier
}

// AwardPoints increments the user's balance with a single atomic UPDATE;
// points are never read-modify-written and never decremented here. The
// returned promotion is nil unless the increment crossed a tier threshold.
func (s *RewardsService) AwardPoints(tx *gorm.DB, userID uuid.UUID, points int64) (*TierPromotion, error) {
	if points <= 0 {
		return nil, nil
	}

	var before models.User
	if err := tx.Select("id", "email", "username", "points").First(&before, "id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	res := tx.Model(&models.User{}).
		Where("id = ?", userID).
		Update("points", gorm.Expr("points + ?", points))
	if res.Error != nil {
		return nil, fmt.Errorf("failed to award points: %w", res.Error)
	}

	tiers, err := s.ListTiers()
	if err != nil {
		logrus.WithError(err).Warn("Tier lookup failed during promotion check")
		return nil, nil
	}
	return promotionFor(tiers, &before, before.Points+points), nil
}

func promotionFor(tiers []models.RewardTier, user *models.User, newBalance int64) *TierPromotion {
	oldTier, hadTier := pricing.ResolveTier(tiers, user.Points)
	newTier, hasTier := pricing.ResolveTier(tiers, newBalance)
	if !hasTier || (hadTier && oldTier.ID == newTier.ID) {
		return nil
	}

	promoted := *user
	promoted.Points = newBalance
	return &TierPromotion{User: promoted, Tier: newTier}
}

// SendPromotion fires the congratulation email. Failures are logged, never
// surfaced.
func (s *RewardsService) SendPromotion(p *TierPromotion) {
	if p == nil {
		return
	}
	go func() {
		if err := s.notifications.SendTierPromotion(&p.User, &p.Tier); err != nil {
			logrus.WithError(err).Warn("Failed to send tier promotion email")
		}
	}()
}
