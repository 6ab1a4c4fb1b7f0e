// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type Role string

const (
	RoleGuest    Role = "guest"
	RoleUser     Role = "user"
	RoleDJ       Role = "dj"
	RolePromoter Role = "promoter"
	RoleCreator  Role = "creator"
	RoleAdmin    Role = "admin"
)

// Professional reports whether the role can own events and receive payouts.
func (r Role) Professional() bool {
	switch r {
	case RoleDJ, RolePromoter, RoleCreator:
		return true
	}
	return false
}

func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleUser, RoleDJ, RolePromoter, RoleCreator, RoleAdmin:
		return true
	}
	return false
}

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"
)

type ConnectStatus string

const (
	ConnectStatusNone       ConnectStatus = "none"
	ConnectStatusPending    ConnectStatus = "pending"
	ConnectStatusOnboarding ConnectStatus = "onboarding"
	ConnectStatusActive     ConnectStatus = "active"
	ConnectStatusRestricted ConnectStatus = "restricted"
)

type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

type TicketType string

const (
	TicketTypeIndividual TicketType = "individual"
	TicketTypeGroup      TicketType = "group"
)

func (t TicketType) Valid() bool {
	return t == TicketTypeIndividual || t == TicketTypeGroup
}

type TicketStatus string

const (
	TicketStatusActive    TicketStatus = "active"
	TicketStatusUsed      TicketStatus = "used"
	TicketStatusCancelled TicketStatus = "cancelled"
)

type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "pending"
	TransactionStatusProcessing TransactionStatus = "processing"
	TransactionStatusCompleted  TransactionStatus = "completed"
	TransactionStatusFailed     TransactionStatus = "failed"
	TransactionStatusRefunded   TransactionStatus = "refunded"
)

type BenefitType string

const (
	BenefitTypeDiscount   BenefitType = "discount"
	BenefitTypeFreeEntry  BenefitType = "free_entry"
	BenefitTypeDrinkCombo BenefitType = "drink_combo"
	BenefitTypeVIPAccess  BenefitType = "vip_access"
)

type ShareChannel string

const (
	ShareChannelInstagram ShareChannel = "instagram"
	ShareChannelTikTok    ShareChannel = "tiktok"
	ShareChannelTwitter   ShareChannel = "twitter"
	ShareChannelWhatsApp  ShareChannel = "whatsapp"
)

func (c ShareChannel) Valid() bool {
	switch c {
	case ShareChannelInstagram, ShareChannelTikTok, ShareChannelTwitter, ShareChannelWhatsApp:
		return true
	}
	return false
}
