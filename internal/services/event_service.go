// internal/services/event_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/nightpulse/backend/internal/models"
	"github.com/nightpulse/backend/internal/realtime"
	"github.com/nightpulse/backend/internal/utils"
)

var ErrNotEventOwner = errors.New("event does not belong to this organizer")

type EventService struct {
	db        *gorm.DB
	publisher *realtime.Publisher
}

type CreateEventRequest struct {
	Name            string    `json:"name" validate:"required,min=3,max=255"`
	Description     string    `json:"description"`
	Venue           string    `json:"venue" validate:"required,max=255"`
	City            string    `json:"city" validate:"max=100"`
	EventDate       time.Time `json:"event_date" validate:"required"`
	IndividualPrice float64   `json:"individual_price" validate:"required,min=0"`
	GroupPrice      float64   `json:"group_price" validate:"min=0"`
	Capacity        int       `json:"capacity" validate:"required,min=1"`
	Genres          []string  `json:"genres"`
}

type UpdateEventRequest struct {
	Name            *string    `json:"name" validate:"omitempty,min=3,max=255"`
	Description     *string    `json:"description"`
	Venue           *string    `json:"venue" validate:"omitempty,max=255"`
	City            *string    `json:"city" validate:"omitempty,max=100"`
	EventDate       *time.Time `json:"event_date"`
	IndividualPrice *float64   `json:"individual_price" validate:"omitempty,min=0"`
	GroupPrice      *float64   `json:"group_price" validate:"omitempty,min=0"`
	Capacity        *int       `json:"capacity" validate:"omitempty,min=1"`
	Genres          []string   `json:"genres"`
}

func NewEventService(db *gorm.DB, publisher *realtime.Publisher) *EventService {
	return &EventService{db: db, publisher: publisher}
}

func (s *EventService) Create(organizerID uuid.UUID, req *CreateEventRequest) (*models.Event, error) {
	event := models.Event{
		OrganizerID:     organizerID,
		Name:            req.Name,
		Slug:            s.uniqueSlug(req.Name),
		Description:     req.Description,
		Venue:           req.Venue,
		City:            req.City,
		EventDate:       req.EventDate,
		IndividualPrice: req.IndividualPrice,
		GroupPrice:      req.GroupPrice,
		Capacity:        req.Capacity,
		Genres:          req.Genres,
		Status:          models.EventStatusDraft,
	}

	if err := s.db.Create(&event).Error; err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return &event, nil
}

// uniqueSlug builds a URL slug from the event name, suffixing a short random
// token when the plain slug is taken.
func (s *EventService) uniqueSlug(name string) string {
	base := slug.Make(name)

	var count int64
	s.db.Model(&models.Event{}).Where("slug = ?", base).Count(&count)
	if count == 0 {
		return base
	}

	suffix, err := utils.GenerateRandomString(6)
	if err != nil {
		suffix = fmt.Sprintf("%d", time.Now().UnixNano()%1e6)
	}
	return fmt.Sprintf("%s-%s", base, suffix)
}

func (s *EventService) Update(ctx context.Context, organizerID uuid.UUID, eventID uuid.UUID, isAdmin bool, req *UpdateEventRequest) (*models.Event, error) {
	event, err := s.ownedEvent(organizerID, eventID, isAdmin)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Venue != nil {
		event.Venue = *req.Venue
	}
	if req.City != nil {
		event.City = *req.City
	}
	if req.EventDate != nil {
		event.EventDate = *req.EventDate
	}
	if req.IndividualPrice != nil {
		event.IndividualPrice = *req.IndividualPrice
	}
	if req.GroupPrice != nil {
		event.GroupPrice = *req.GroupPrice
	}
	if req.Capacity != nil {
		event.Capacity = *req.Capacity
	}
	if req.Genres != nil {
		event.Genres = req.Genres
	}

	if err := s.db.Save(event).Error; err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.publisher.EventChanged(ctx, event.ID, "event_updated")
	return event, nil
}

func (s *EventService) Publish(ctx context.Context, organizerID uuid.UUID, eventID uuid.UUID, isAdmin bool) (*models.Event, error) {
	return s.setStatus(ctx, organizerID, eventID, isAdmin, models.EventStatusPublished, "event_published")
}

func (s *EventService) Cancel(ctx context.Context, organizerID uuid.UUID, eventID uuid.UUID, isAdmin bool) (*models.Event, error) {
	return s.setStatus(ctx, organizerID, eventID, isAdmin, models.EventStatusCancelled, "event_cancelled")
}

func (s *EventService) setStatus(ctx context.Context, organizerID, eventID uuid.UUID, isAdmin bool, status models.EventStatus, kind string) (*models.Event, error) {
	event, err := s.ownedEvent(organizerID, eventID, isAdmin)
	if err != nil {
		return nil, err
	}

	event.Status = status
	if err := s.db.Save(event).Error; err != nil {
		return nil, fmt.Errorf("failed to update event status: %w", err)
	}

	s.publisher.EventChanged(ctx, event.ID, kind)
	return event, nil
}

func (s *EventService) Delete(organizerID uuid.UUID, eventID uuid.UUID, isAdmin bool) error {
	event, err := s.ownedEvent(organizerID, eventID, isAdmin)
	if err != nil {
		return err
	}
	return s.db.Delete(event).Error
}

func (s *EventService) ownedEvent(organizerID, eventID uuid.UUID, isAdmin bool) (*models.Event, error) {
	var event models.Event
	if err := s.db.First(&event, "id = ?", eventID).Error; err != nil {
		return nil, fmt.Errorf("event not found: %w", err)
	}
	if !isAdmin && event.OrganizerID != organizerID {
		return nil, ErrNotEventOwner
	}
	return &event, nil
}

func (s *EventService) Get(idOrSlug string) (*models.Event, error) {
	var event models.Event

	if id, err := uuid.Parse(idOrSlug); err == nil {
		if err := s.db.Preload("Organizer").First(&event, "id = ?", id).Error; err != nil {
			return nil, fmt.Errorf("event not found: %w", err)
		}
		return &event, nil
	}

	if err := s.db.Preload("Organizer").First(&event, "slug = ?", idOrSlug).Error; err != nil {
		return nil, fmt.Errorf("event not found: %w", err)
	}
	return &event, nil
}

func (s *EventService) List(params utils.PaginationParams, organizerID *uuid.UUID) ([]models.Event, int64, error) {
	query := s.db.Model(&models.Event{})

	if organizerID != nil {
		query = query.Where("organizer_id = ?", *organizerID)
	} else {
		query = query.Where("status = ?", models.EventStatusPublished)
	}
	if params.City != "" {
		query = query.Where("city = ?", params.City)
	}
	if params.Genre != "" {
		query = query.Where("? = ANY(genres)", params.Genre)
	}
	if params.Search != "" {
		query = query.Where("to_tsvector('english', name || ' ' || description) @@ plainto_tsquery('english', ?)", params.Search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	allowedSortFields := []string{"created_at", "event_date", "individual_price", "name"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var events []models.Event
	if err := query.Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch events: %w", err)
	}

	return events, total, nil
}

// CompletePastEvents flips published events whose date has passed to
// completed. Run daily by the scheduler.
func (s *EventService) CompletePastEvents() (int64, error) {
	res := s.db.Model(&models.Event{}).
		Where("status = ? AND event_date < ?", models.EventStatusPublished, time.Now().Add(-24*time.Hour)).
		Update("status", models.EventStatusCompleted)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to complete past events: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *EventService) SetFlyerURL(organizerID, eventID uuid.UUID, isAdmin bool, url string) error {
	event, err := s.ownedEvent(organizerID, eventID, isAdmin)
	if err != nil {
		return err
	}
	return s.db.Model(event).Update("flyer_url", url).Error
}
