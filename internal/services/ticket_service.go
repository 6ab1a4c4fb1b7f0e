// internal/services/ticket_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nightpulse/backend/internal/config"
	"github.com/nightpulse/backend/internal/models"
	"github.com/nightpulse/backend/internal/realtime"
	"github.com/nightpulse/backend/internal/utils"
)

// Share bonuses, in points.
const (
	TicketShareBonus = 100
	SocialShareBonus = 50
)

var (
	ErrCapacityExceeded = errors.New("event capacity exceeded")
	ErrNotTicketOwner   = errors.New("ticket does not belong to this user")
	ErrAlreadyShared    = errors.New("share bonus already earned for this ticket")
)

type TicketService struct {
	db        *gorm.DB
	config    *config.Config
	rewards   *RewardsService
	publisher *realtime.Publisher
}

func NewTicketService(db *gorm.DB, cfg *config.Config, rewards *RewardsService, publisher *realtime.Publisher) *TicketService {
	return &TicketService{
		db:        db,
		config:    cfg,
		rewards:   rewards,
		publisher: publisher,
	}
}

// Issue creates the tickets for a settled transaction inside the caller's DB
// transaction. Capacity is reserved with a single conditional UPDATE so two
// concurrent purchases can never oversell.
func (s *TicketService) Issue(tx *gorm.DB, transaction *models.PaymentTransaction) ([]models.Ticket, error) {
	res := tx.Model(&models.Event{}).
		Where("id = ? AND tickets_sold + ? <= capacity", transaction.EventID, transaction.Quantity).
		Update("tickets_sold", gorm.Expr("tickets_sold + ?", transaction.Quantity))
	if res.Error != nil {
		return nil, fmt.Errorf("failed to reserve capacity: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrCapacityExceeded
	}

	perTicket := transaction.PointsAwarded / int64(transaction.Quantity)
	remainder := transaction.PointsAwarded % int64(transaction.Quantity)

	tickets := make([]models.Ticket, 0, transaction.Quantity)
	for i := 0; i < transaction.Quantity; i++ {
		code, err := utils.GenerateTicketCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate ticket code: %w", err)
		}

		points := perTicket
		if i == 0 {
			points += remainder
		}

		ticket := models.Ticket{
			EventID:       transaction.EventID,
			UserID:        transaction.UserID,
			TransactionID: &transaction.ID,
			Type:          transaction.TicketType,
			Code:          code,
			Status:        models.TicketStatusActive,
			PointsEarned:  points,
		}
		if err := tx.Create(&ticket).Error; err != nil {
			return nil, fmt.Errorf("failed to create ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	return tickets, nil
}

// ScanOutcome is the result of a door scan.
type ScanOutcome struct {
	Accepted bool           `json:"accepted"`
	Reason   string         `json:"reason,omitempty"`
	Ticket   *models.Ticket `json:"ticket,omitempty"`
}

// Scan reasons surfaced to the scanner UI, resolved through the message
// table client-side.
const (
	ScanReasonNotFound     = "ticket.not_found"
	ScanReasonAlreadyUsed  = "ticket.already_used"
	ScanReasonCancelled    = "ticket.cancelled"
	ScanReasonWrongChannel = "ticket.wrong_event"
)

// ScanTicket checks a code in at the door. The check-in is one conditional
// UPDATE: two simultaneous scans of the same code race on the WHERE clause
// and exactly one wins; the loser sees the row already used.
func (s *TicketService) ScanTicket(ctx context.Context, eventID uuid.UUID, code string) (*ScanOutcome, error) {
	code = strings.TrimSpace(code)

	res := s.db.Model(&models.Ticket{}).
		Where("code = ? AND event_id = ? AND status = ?", code, eventID, models.TicketStatusActive).
		Updates(map[string]interface{}{
			"status":  models.TicketStatusUsed,
			"used_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to check ticket in: %w", res.Error)
	}

	if res.RowsAffected == 1 {
		var ticket models.Ticket
		if err := s.db.Preload("User").First(&ticket, "code = ? AND event_id = ?", code, eventID).Error; err != nil {
			return nil, fmt.Errorf("failed to load checked-in ticket: %w", err)
		}
		s.publisher.TicketChanged(ctx, ticket.ID, ticket.EventID, "ticket_used")
		return &ScanOutcome{Accepted: true, Ticket: &ticket}, nil
	}

	// Nothing transitioned; report why.
	var ticket models.Ticket
	err := s.db.First(&ticket, "code = ?", code).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &ScanOutcome{Accepted: false, Reason: ScanReasonNotFound}, nil
	case err != nil:
		return nil, fmt.Errorf("failed to look up ticket: %w", err)
	case ticket.EventID != eventID:
		return &ScanOutcome{Accepted: false, Reason: ScanReasonWrongChannel}, nil
	case ticket.Status == models.TicketStatusUsed:
		return &ScanOutcome{Accepted: false, Reason: ScanReasonAlreadyUsed, Ticket: &ticket}, nil
	case ticket.Status == models.TicketStatusCancelled:
		return &ScanOutcome{Accepted: false, Reason: ScanReasonCancelled, Ticket: &ticket}, nil
	default:
		return &ScanOutcome{Accepted: false, Reason: ScanReasonNotFound}, nil
	}
}

// ShareTicket awards the share-with-a-friend bonus once per ticket. The
// unique index on (user_id, ticket_id) is what enforces "once"; a duplicate
// insert maps to ErrAlreadyShared.
func (s *TicketService) ShareTicket(ctx context.Context, userID, ticketID uuid.UUID, recipientName string) (int64, error) {
	ticket, err := s.ownedTicket(userID, ticketID)
	if err != nil {
		return 0, err
	}

	share := models.TicketShare{
		TicketID:      ticket.ID,
		UserID:        userID,
		RecipientName: recipientName,
		PointsAwarded: TicketShareBonus,
	}

	return s.awardShare(ctx, userID, func(tx *gorm.DB) error {
		return tx.Create(&share).Error
	}, TicketShareBonus)
}

// ShareSocial awards the social-post bonus once per ticket and channel.
func (s *TicketService) ShareSocial(ctx context.Context, userID, ticketID uuid.UUID, channel models.ShareChannel) (int64, error) {
	ticket, err := s.ownedTicket(userID, ticketID)
	if err != nil {
		return 0, err
	}

	share := models.SocialShare{
		TicketID:      ticket.ID,
		UserID:        userID,
		Channel:       channel,
		PointsAwarded: SocialShareBonus,
	}

	return s.awardShare(ctx, userID, func(tx *gorm.DB) error {
		return tx.Create(&share).Error
	}, SocialShareBonus)
}

func (s *TicketService) ownedTicket(userID, ticketID uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := s.db.First(&ticket, "id = ?", ticketID).Error; err != nil {
		return nil, fmt.Errorf("ticket not found: %w", err)
	}
	if ticket.UserID != userID {
		return nil, ErrNotTicketOwner
	}
	return &ticket, nil
}

func (s *TicketService) awardShare(ctx context.Context, userID uuid.UUID, insert func(*gorm.DB) error, bonus int64) (int64, error) {
	var promotion *TierPromotion
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := insert(tx); err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyShared
			}
			return err
		}
		var err error
		promotion, err = s.rewards.AwardPoints(tx, userID, bonus)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.rewards.SendPromotion(promotion)

	var user models.User
	if err := s.db.Select("points").First(&user, "id = ?", userID).Error; err != nil {
		return 0, fmt.Errorf("failed to read points balance: %w", err)
	}
	s.publisher.PointsChanged(ctx, userID, user.Points)
	return user.Points, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key value")
}

func (s *TicketService) GetUserTickets(userID uuid.UUID, params utils.PaginationParams) ([]models.Ticket, int64, error) {
	query := s.db.Model(&models.Ticket{}).
		Where("user_id = ?", userID).
		Preload("Event")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	allowedSortFields := []string{"created_at", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var tickets []models.Ticket
	if err := query.Find(&tickets).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch tickets: %w", err)
	}

	return tickets, total, nil
}
