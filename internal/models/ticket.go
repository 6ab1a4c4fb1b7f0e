// internal/models/ticket.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Ticket struct {
	BaseModel
	EventID       uuid.UUID    `json:"event_id" gorm:"type:uuid;not null;index"`
	UserID        uuid.UUID    `json:"user_id" gorm:"type:uuid;not null;index"`
	TransactionID *uuid.UUID   `json:"transaction_id" gorm:"type:uuid;index"`
	Type          TicketType   `json:"type" gorm:"type:varchar(20);not null"`
	Code          string       `json:"code" gorm:"uniqueIndex;size:64;not null"`
	Status        TicketStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`
	PointsEarned  int64        `json:"points_earned" gorm:"not null;default:0"`
	UsedAt        *time.Time   `json:"used_at"`

	// Relationships
	Event Event `json:"event,omitempty" gorm:"foreignKey:EventID"`
	User  User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TicketShare records a share-with-a-friend action. Unique per user+ticket so
// the bonus can only be earned once per ticket.
type TicketShare struct {
	BaseModel
	TicketID      uuid.UUID `json:"ticket_id" gorm:"type:uuid;not null;uniqueIndex:idx_ticket_share_once,priority:2"`
	UserID        uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_ticket_share_once,priority:1"`
	RecipientName string    `json:"recipient_name" gorm:"size:100"`
	PointsAwarded int64     `json:"points_awarded" gorm:"not null"`

	Ticket Ticket `json:"ticket,omitempty" gorm:"foreignKey:TicketID"`
}

// SocialShare records a post to a social channel. Unique per
// user+ticket+channel.
type SocialShare struct {
	BaseModel
	TicketID      uuid.UUID    `json:"ticket_id" gorm:"type:uuid;not null;uniqueIndex:idx_social_share_once,priority:2"`
	UserID        uuid.UUID    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_social_share_once,priority:1"`
	Channel       ShareChannel `json:"channel" gorm:"type:varchar(20);not null;uniqueIndex:idx_social_share_once,priority:3"`
	PointsAwarded int64        `json:"points_awarded" gorm:"not null"`

	Ticket Ticket `json:"ticket,omitempty" gorm:"foreignKey:TicketID"`
}
