// internal/models/event.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Event struct {
	BaseModel
	OrganizerID     uuid.UUID      `json:"organizer_id" gorm:"type:uuid;not null;index"`
	Name            string         `json:"name" gorm:"size:255;not null"`
	Slug            string         `json:"slug" gorm:"uniqueIndex;size:255;not null"`
	Description     string         `json:"description" gorm:"type:text"`
	Venue           string         `json:"venue" gorm:"size:255;not null"`
	City            string         `json:"city" gorm:"size:100;index"`
	EventDate       time.Time      `json:"event_date" gorm:"not null;index"`
	IndividualPrice float64        `json:"individual_price" gorm:"type:decimal(10,2);not null"`
	GroupPrice      float64        `json:"group_price" gorm:"type:decimal(10,2)"`
	Capacity        int            `json:"capacity" gorm:"not null"`
	TicketsSold     int            `json:"tickets_sold" gorm:"not null;default:0"`
	Genres          pq.StringArray `json:"genres" gorm:"type:text[]"`
	FlyerURL        string         `json:"flyer_url" gorm:"size:500"`
	Status          EventStatus    `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	Metadata        JSONB          `json:"metadata" gorm:"type:jsonb"`

	// Relationships
	Organizer User     `json:"organizer,omitempty" gorm:"foreignKey:OrganizerID"`
	Tickets   []Ticket `json:"tickets,omitempty" gorm:"foreignKey:EventID"`
}

// Remaining reports how many tickets can still be sold.
func (e *Event) Remaining() int {
	remaining := e.Capacity - e.TicketsSold
	if remaining < 0 {
		return 0
	}
	return remaining
}

// PriceFor returns the unit price for a ticket type. Events without a group
// price sell group tickets at the individual rate.
func (e *Event) PriceFor(t TicketType) float64 {
	if t == TicketTypeGroup && e.GroupPrice > 0 {
		return e.GroupPrice
	}
	return e.IndividualPrice
}
