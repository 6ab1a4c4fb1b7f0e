// internal/models/rewards.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type RewardTier struct {
	BaseModel
	Name            string         `json:"name" gorm:"uniqueIndex;size:50;not null"`
	PointsThreshold int64          `json:"points_threshold" gorm:"uniqueIndex;not null"`
	Perks           pq.StringArray `json:"perks" gorm:"type:text[]"`

	Benefits []RewardBenefit `json:"benefits,omitempty" gorm:"foreignKey:TierID"`
}

type RewardBenefit struct {
	BaseModel
	TierID      uuid.UUID   `json:"tier_id" gorm:"type:uuid;not null;index"`
	BenefitType BenefitType `json:"benefit_type" gorm:"type:varchar(20);not null"`
	Value       float64     `json:"value" gorm:"type:decimal(10,2);not null"`
	Description string      `json:"description" gorm:"size:255"`

	Tier RewardTier `json:"tier,omitempty" gorm:"foreignKey:TierID"`
}
