// internal/services/payment_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"gorm.io/gorm"

	"github.com/nightpulse/backend/internal/config"
	"github.com/nightpulse/backend/internal/database"
	"github.com/nightpulse/backend/internal/models"
	"github.com/nightpulse/backend/internal/pricing"
	"github.com/nightpulse/backend/internal/realtime"
	"github.com/nightpulse/backend/internal/utils"
)

var (
	ErrEventNotOnSale = errors.New("event is not on sale")
	ErrEventSoldOut   = errors.New("event is sold out")
	ErrNoPayoutRoute  = errors.New("no payout destination is configured")
)

type PaymentService struct {
	db            *gorm.DB
	config        *config.Config
	tickets       *TicketService
	rewards       *RewardsService
	notifications *NotificationService
	publisher     *realtime.Publisher
}

type CreatePurchaseIntentRequest struct {
	EventID    uuid.UUID `json:"event_id" validate:"required"`
	TicketType string    `json:"ticket_type" validate:"required,ticket_type"`
	Quantity   int       `json:"quantity" validate:"required,min=1,max=20"`
	// Nonce is generated client-side when the cart is confirmed and reused on
	// retries, so a double submission maps to the same idempotency key.
	Nonce string `json:"nonce" validate:"required,min=8,max=64"`
}

type PurchaseIntentResponse struct {
	TransactionID  uuid.UUID      `json:"transaction_id"`
	ClientSecret   string         `json:"client_secret"`
	PublishableKey string         `json:"publishable_key"`
	Quote          *pricing.Quote `json:"quote"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string    `json:"payment_intent_id" validate:"required"`
	TransactionID   uuid.UUID `json:"transaction_id" validate:"required"`
}

func NewPaymentService(db *gorm.DB, cfg *config.Config, tickets *TicketService, rewards *RewardsService, notifications *NotificationService, publisher *realtime.Publisher) *PaymentService {
	// Initialize Stripe
	stripe.Key = cfg.Payment.StripeSecretKey

	return &PaymentService{
		db:            db,
		config:        cfg,
		tickets:       tickets,
		rewards:       rewards,
		notifications: notifications,
		publisher:     publisher,
	}
}

// Quote prices a cart without side effects; the same math later backs the
// charge, so the preview and the receipt always agree.
func (s *PaymentService) Quote(eventID uuid.UUID, ticketType models.TicketType, quantity int) (*pricing.Quote, *models.Event, error) {
	var event models.Event
	if err := s.db.First(&event, "id = ?", eventID).Error; err != nil {
		return nil, nil, fmt.Errorf("event not found: %w", err)
	}

	if event.Status != models.EventStatusPublished {
		return nil, nil, ErrEventNotOnSale
	}
	if event.Remaining() < quantity {
		return nil, nil, ErrEventSoldOut
	}

	quote, err := pricing.NewQuote(event.PriceFor(ticketType), quantity, ticketType)
	if err != nil {
		return nil, nil, err
	}
	return quote, &event, nil
}

// CreatePurchaseIntent converts a confirmed cart into a Stripe PaymentIntent
// routing the service fee to the platform and the remainder to the event
// organizer's connected account. Retried submissions resolve to the existing
// transaction instead of charging twice.
func (s *PaymentService) CreatePurchaseIntent(userID uuid.UUID, req *CreatePurchaseIntentRequest) (*PurchaseIntentResponse, error) {
	ticketType := models.TicketType(req.TicketType)

	quote, event, err := s.Quote(req.EventID, ticketType, req.Quantity)
	if err != nil {
		return nil, err
	}

	key := utils.PurchaseIdempotencyKey(userID.String(), req.EventID.String(), req.TicketType, req.Quantity, req.Nonce)

	// A transaction already created for this cart wins over a new one.
	var existing models.PaymentTransaction
	err = s.db.Where("idempotency_key = ?", key).First(&existing).Error
	if err == nil {
		return s.resumeIntent(&existing, quote)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up transaction: %w", err)
	}

	destination, err := s.resolveDestination(event)
	if err != nil {
		return nil, err
	}

	transaction := models.PaymentTransaction{
		UserID:             userID,
		EventID:            event.ID,
		TicketType:         ticketType,
		Quantity:           req.Quantity,
		BaseAmount:         quote.Subtotal.InexactFloat64(),
		ServiceFee:         quote.ServiceFee.InexactFloat64(),
		TotalAmount:        quote.Total.InexactFloat64(),
		Currency:           s.config.Payment.Currency,
		Provider:           "stripe",
		IdempotencyKey:     key,
		DestinationAccount: destination,
		PlatformAccount:    s.config.Payment.PlatformAccountID,
		Status:             models.TransactionStatusProcessing,
		PointsAwarded:      quote.TotalPoints,
	}

	if err := s.db.Create(&transaction).Error; err != nil {
		// A concurrent submission of the same cart won the insert race on the
		// unique idempotency_key index; resume its intent.
		if isUniqueViolation(err) {
			if lookupErr := s.db.Where("idempotency_key = ?", key).First(&existing).Error; lookupErr == nil {
				return s.resumeIntent(&existing, quote)
			}
		}
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	params := &stripe.PaymentIntentParams{
		Amount:               stripe.Int64(quote.TotalCents()),
		Currency:             stripe.String(s.config.Payment.Currency),
		ApplicationFeeAmount: stripe.Int64(quote.FeeCents()),
		TransferData: &stripe.PaymentIntentTransferDataParams{
			Destination: stripe.String(destination),
		},
	}
	params.AddMetadata("transaction_id", transaction.ID.String())
	params.AddMetadata("event_id", event.ID.String())
	params.AddMetadata("user_id", userID.String())
	// The same key guards against double-charging on the provider side too.
	params.SetIdempotencyKey(key)

	pi, err := paymentintent.New(params)
	if err != nil {
		s.db.Model(&transaction).Updates(map[string]interface{}{
			"status":         models.TransactionStatusFailed,
			"failure_reason": err.Error(),
		})
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	if err := s.db.Model(&transaction).Update("payment_intent_id", pi.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment intent: %w", err)
	}

	return &PurchaseIntentResponse{
		TransactionID:  transaction.ID,
		ClientSecret:   pi.ClientSecret,
		PublishableKey: s.config.Payment.StripePublishableKey,
		Quote:          quote,
	}, nil
}

// resumeIntent hands back the client secret of an already-created intent so
// a retried submission can continue confirming instead of paying again.
func (s *PaymentService) resumeIntent(transaction *models.PaymentTransaction, quote *pricing.Quote) (*PurchaseIntentResponse, error) {
	if transaction.Status == models.TransactionStatusCompleted {
		return nil, errors.New("this purchase has already been completed")
	}
	if transaction.PaymentIntentID == "" {
		return nil, errors.New("purchase is pending, retry shortly")
	}

	pi, err := paymentintent.Get(transaction.PaymentIntentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to resume payment intent: %w", err)
	}

	return &PurchaseIntentResponse{
		TransactionID:  transaction.ID,
		ClientSecret:   pi.ClientSecret,
		PublishableKey: s.config.Payment.StripePublishableKey,
		Quote:          quote,
	}, nil
}

// resolveDestination picks the transfer destination for an event: the
// organizer's active connected account, falling back to the platform account
// while onboarding is incomplete.
func (s *PaymentService) resolveDestination(event *models.Event) (string, error) {
	var organizer models.User
	if err := s.db.First(&organizer, "id = ?", event.OrganizerID).Error; err != nil {
		return "", fmt.Errorf("organizer not found: %w", err)
	}

	if organizer.StripeAccountID != "" && organizer.ConnectStatus == models.ConnectStatusActive {
		return organizer.StripeAccountID, nil
	}

	if s.config.Payment.PlatformAccountID != "" {
		return s.config.Payment.PlatformAccountID, nil
	}

	return "", ErrNoPayoutRoute
}

// ConfirmPayment settles a transaction after the client confirmed the intent
// through the hosted payment element.
func (s *PaymentService) ConfirmPayment(ctx context.Context, req *ConfirmPaymentRequest) (*models.PaymentTransaction, error) {
	pi, err := paymentintent.Get(req.PaymentIntentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment intent: %w", err)
	}

	var transaction models.PaymentTransaction
	if err := s.db.First(&transaction, "id = ?", req.TransactionID).Error; err != nil {
		return nil, fmt.Errorf("transaction not found: %w", err)
	}
	if transaction.PaymentIntentID != pi.ID {
		return nil, errors.New("payment intent does not belong to this transaction")
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		if err := s.settle(ctx, &transaction); err != nil {
			return nil, err
		}

	case stripe.PaymentIntentStatusRequiresAction, stripe.PaymentIntentStatusRequiresConfirmation:
		transaction.Status = models.TransactionStatusPending
		if err := s.db.Save(&transaction).Error; err != nil {
			return nil, fmt.Errorf("failed to update transaction: %w", err)
		}

	default:
		transaction.Status = models.TransactionStatusFailed
		if pi.LastPaymentError != nil {
			transaction.FailureReason = pi.LastPaymentError.Msg
		}
		if err := s.db.Save(&transaction).Error; err != nil {
			return nil, fmt.Errorf("failed to update transaction: %w", err)
		}
	}

	return &transaction, nil
}

// settle completes a paid transaction exactly once: tickets are issued and
// points awarded inside one DB transaction, gated by a conditional status
// flip so a concurrent confirm and reconcile cannot both settle.
func (s *PaymentService) settle(ctx context.Context, transaction *models.PaymentTransaction) error {
	var issued []models.Ticket
	var promotion *TierPromotion

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		res := tx.Model(&models.PaymentTransaction{}).
			Where("id = ? AND status IN ?", transaction.ID,
				[]models.TransactionStatus{models.TransactionStatusProcessing, models.TransactionStatusPending}).
			Updates(map[string]interface{}{
				"status":       models.TransactionStatusCompleted,
				"processed_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Already settled by a concurrent confirm; nothing to do.
			return nil
		}

		tickets, err := s.tickets.Issue(tx, transaction)
		if err != nil {
			return err
		}
		issued = tickets

		promotion, err = s.rewards.AwardPoints(tx, transaction.UserID, transaction.PointsAwarded)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to settle transaction: %w", err)
	}

	transaction.Status = models.TransactionStatusCompleted

	if len(issued) > 0 {
		s.notifyPurchase(ctx, transaction, issued)
	}
	s.rewards.SendPromotion(promotion)
	return nil
}

// notifyPurchase fans out the post-purchase side effects. Failures are logged
// and never surface to the purchase path.
func (s *PaymentService) notifyPurchase(ctx context.Context, transaction *models.PaymentTransaction, tickets []models.Ticket) {
	for _, t := range tickets {
		s.publisher.TicketChanged(ctx, t.ID, t.EventID, "ticket_issued")
	}
	s.publisher.EventChanged(ctx, transaction.EventID, "capacity_changed")

	var user models.User
	if err := s.db.First(&user, "id = ?", transaction.UserID).Error; err == nil {
		s.publisher.PointsChanged(ctx, user.ID, user.Points)
		go func() {
			if err := s.notifications.SendPurchaseReceipt(&user, transaction, tickets); err != nil {
				logrus.WithError(err).Warn("Failed to send purchase receipt")
			}
		}()
	}
}

// ReconcileStale settles transactions stuck in processing, e.g. after the
// client navigated away mid-confirmation. Run periodically by the scheduler.
func (s *PaymentService) ReconcileStale(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)

	var stale []models.PaymentTransaction
	err := s.db.
		Where("status IN ? AND payment_intent_id <> '' AND updated_at < ?",
			[]models.TransactionStatus{models.TransactionStatusProcessing, models.TransactionStatusPending}, cutoff).
		Limit(100).
		Find(&stale).Error
	if err != nil {
		return 0, fmt.Errorf("failed to list stale transactions: %w", err)
	}

	settled := 0
	for i := range stale {
		transaction := &stale[i]
		pi, err := paymentintent.Get(transaction.PaymentIntentID, nil)
		if err != nil {
			logrus.WithError(err).WithField("transaction_id", transaction.ID).Warn("Reconcile: intent lookup failed")
			continue
		}

		switch pi.Status {
		case stripe.PaymentIntentStatusSucceeded:
			if err := s.settle(ctx, transaction); err != nil {
				logrus.WithError(err).WithField("transaction_id", transaction.ID).Error("Reconcile: settle failed")
				continue
			}
			settled++

		case stripe.PaymentIntentStatusCanceled:
			s.db.Model(transaction).Updates(map[string]interface{}{
				"status":         models.TransactionStatusFailed,
				"failure_reason": "payment intent canceled",
			})

		case stripe.PaymentIntentStatusRequiresPaymentMethod:
			if pi.LastPaymentError != nil {
				s.db.Model(transaction).Updates(map[string]interface{}{
					"status":         models.TransactionStatusFailed,
					"failure_reason": pi.LastPaymentError.Msg,
				})
			}
		}
	}

	return settled, nil
}

func (s *PaymentService) GetPaymentHistory(userID uuid.UUID, params utils.PaginationParams) ([]models.PaymentTransaction, int64, error) {
	query := s.db.Model(&models.PaymentTransaction{}).
		Where("user_id = ?", userID).
		Preload("Event")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	allowedSortFields := []string{"created_at", "total_amount", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var transactions []models.PaymentTransaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	return transactions, total, nil
}
