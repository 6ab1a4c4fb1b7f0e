// internal/services/connect_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/account"
	"github.com/stripe/stripe-go/v74/accountlink"
	"gorm.io/gorm"

	"github.com/nightpulse/backend/internal/config"
	"github.com/nightpulse/backend/internal/models"
)

var (
	ErrNotProfessional  = errors.New("only professional accounts can receive payouts")
	ErrNoConnectAccount = errors.New("no connected account for this user")
)

// ConnectService manages the Stripe Express accounts professional users
// (DJs, promoters, creators) receive their event revenue through.
type ConnectService struct {
	db            *gorm.DB
	config        *config.Config
	notifications *NotificationService
}

type ConnectAccountResponse struct {
	AccountID     string               `json:"account_id"`
	Status        models.ConnectStatus `json:"status"`
	OnboardingURL string               `json:"onboarding_url,omitempty"`
}

type AccountStatusResponse struct {
	AccountID        string               `json:"account_id"`
	Status           models.ConnectStatus `json:"status"`
	ChargesEnabled   bool                 `json:"charges_enabled"`
	PayoutsEnabled   bool                 `json:"payouts_enabled"`
	DetailsSubmitted bool                 `json:"details_submitted"`
}

func NewConnectService(db *gorm.DB, cfg *config.Config, notifications *NotificationService) *ConnectService {
	return &ConnectService{
		db:            db,
		config:        cfg,
		notifications: notifications,
	}
}

// CreateAccount creates an Express connected account for a professional user
// and returns a one-time onboarding link. Calling it again for a user who
// already has an account just issues a fresh link.
func (s *ConnectService) CreateAccount(userID uuid.UUID) (*ConnectAccountResponse, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	if !user.Role.Professional() {
		return nil, ErrNotProfessional
	}

	if user.StripeAccountID == "" {
		params := &stripe.AccountParams{
			Type:  stripe.String(string(stripe.AccountTypeExpress)),
			Email: stripe.String(user.Email),
			Capabilities: &stripe.AccountCapabilitiesParams{
				CardPayments: &stripe.AccountCapabilitiesCardPaymentsParams{
					Requested: stripe.Bool(true),
				},
				Transfers: &stripe.AccountCapabilitiesTransfersParams{
					Requested: stripe.Bool(true),
				},
			},
		}
		params.AddMetadata("user_id", user.ID.String())

		acct, err := account.New(params)
		if err != nil {
			return nil, fmt.Errorf("failed to create connected account: %w", err)
		}

		user.StripeAccountID = acct.ID
		user.ConnectStatus = models.ConnectStatusPending
		if err := s.db.Model(&user).Updates(map[string]interface{}{
			"stripe_account_id": acct.ID,
			"connect_status":    models.ConnectStatusPending,
		}).Error; err != nil {
			return nil, fmt.Errorf("failed to save connected account: %w", err)
		}
	}

	link, err := s.onboardingLink(user.StripeAccountID)
	if err != nil {
		return nil, err
	}

	go func() {
		if err := s.notifications.SendConnectOnboarding(&user, link); err != nil {
			logrus.WithError(err).Warn("Failed to send onboarding email")
		}
	}()

	return &ConnectAccountResponse{
		AccountID:     user.StripeAccountID,
		Status:        user.ConnectStatus,
		OnboardingURL: link,
	}, nil
}

// CreateAccountLink issues a fresh time-boxed onboarding link for an
// existing connected account.
func (s *ConnectService) CreateAccountLink(userID uuid.UUID) (string, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return "", fmt.Errorf("user not found: %w", err)
	}
	if user.StripeAccountID == "" {
		return "", ErrNoConnectAccount
	}
	return s.onboardingLink(user.StripeAccountID)
}

func (s *ConnectService) onboardingLink(accountID string) (string, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(s.config.Frontend.PortalURL + "/payouts/refresh"),
		ReturnURL:  stripe.String(s.config.Frontend.PortalURL + "/payouts/complete"),
		Type:       stripe.String("account_onboarding"),
	}

	link, err := accountlink.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create account link: %w", err)
	}
	return link.URL, nil
}

// AccountStatus fetches the live account state from Stripe, persists the
// derived status, and returns it.
func (s *ConnectService) AccountStatus(userID uuid.UUID) (*AccountStatusResponse, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	if user.StripeAccountID == "" {
		return nil, ErrNoConnectAccount
	}

	acct, err := account.GetByID(user.StripeAccountID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch connected account: %w", err)
	}

	status := deriveConnectStatus(acct)
	if status != user.ConnectStatus {
		if err := s.db.Model(&user).Update("connect_status", status).Error; err != nil {
			return nil, fmt.Errorf("failed to update connect status: %w", err)
		}
	}

	return &AccountStatusResponse{
		AccountID:        acct.ID,
		Status:           status,
		ChargesEnabled:   acct.ChargesEnabled,
		PayoutsEnabled:   acct.PayoutsEnabled,
		DetailsSubmitted: acct.DetailsSubmitted,
	}, nil
}

func deriveConnectStatus(acct *stripe.Account) models.ConnectStatus {
	switch {
	case acct.ChargesEnabled && acct.PayoutsEnabled:
		return models.ConnectStatusActive
	case acct.DetailsSubmitted:
		return models.ConnectStatusRestricted
	default:
		return models.ConnectStatusOnboarding
	}
}
