// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Username        string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email           string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash    string     `json:"-" gorm:"size:255;not null"`
	Role            Role       `json:"role" gorm:"type:varchar(20);not null;default:'user'"`
	Status          UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	Points          int64      `json:"points" gorm:"not null;default:0"`
	ProfileData     JSONB      `json:"profile_data" gorm:"type:jsonb"`
	AvatarURL       string     `json:"avatar_url" gorm:"size:500"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	LastLoginAt     *time.Time `json:"last_login_at"`

	// Stripe Connect payout account for professional users
	StripeAccountID string        `json:"stripe_account_id,omitempty" gorm:"size:255;index"`
	ConnectStatus   ConnectStatus `json:"connect_status" gorm:"type:varchar(20);default:'none'"`

	// Relationships
	Events       []Event              `json:"events,omitempty" gorm:"foreignKey:OrganizerID"`
	Tickets      []Ticket             `json:"tickets,omitempty" gorm:"foreignKey:UserID"`
	Transactions []PaymentTransaction `json:"transactions,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
