// internal/models/transaction.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentTransaction struct {
	BaseModel
	UserID     uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	EventID    uuid.UUID  `json:"event_id" gorm:"type:uuid;not null;index"`
	TicketType TicketType `json:"ticket_type" gorm:"type:varchar(20);not null"`
	Quantity   int        `json:"quantity" gorm:"not null"`

	BaseAmount  float64 `json:"base_amount" gorm:"type:decimal(10,2);not null"`
	ServiceFee  float64 `json:"service_fee" gorm:"type:decimal(10,2);not null"`
	TotalAmount float64 `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	Currency    string  `json:"currency" gorm:"size:3;default:'usd'"`

	Provider        string `json:"provider" gorm:"size:20;default:'stripe'"`
	PaymentIntentID string `json:"payment_intent_id" gorm:"size:255;index"`
	// IdempotencyKey is derived from (user, event, cart); a retried submission
	// resolves to the existing row instead of creating a second charge.
	IdempotencyKey string `json:"-" gorm:"uniqueIndex;size:64;not null"`

	// DestinationAccount receives the transfer (the organizer's connected
	// account, or the platform fallback); PlatformAccount keeps the fee.
	DestinationAccount string `json:"destination_account" gorm:"size:255"`
	PlatformAccount    string `json:"platform_account" gorm:"size:255"`

	Status        TransactionStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	PointsAwarded int64             `json:"points_awarded" gorm:"not null;default:0"`
	FailureReason string            `json:"failure_reason,omitempty" gorm:"type:text"`
	ProcessedAt   *time.Time        `json:"processed_at"`

	// Relationships
	User    User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Event   Event    `json:"event,omitempty" gorm:"foreignKey:EventID"`
	Tickets []Ticket `json:"tickets,omitempty" gorm:"foreignKey:TransactionID"`
}
