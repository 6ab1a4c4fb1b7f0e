// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nightpulse/backend/internal/config"
	"github.com/nightpulse/backend/internal/models"
)

type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(db *gorm.DB, cfg *config.Config) *NotificationService {
	return &NotificationService{db: db, config: cfg}
}

// SendPurchaseReceipt emails the buyer their tickets and points summary.
func (s *NotificationService) SendPurchaseReceipt(user *models.User, transaction *models.PaymentTransaction, tickets []models.Ticket) error {
	var event models.Event
	if err := s.db.First(&event, "id = ?", transaction.EventID).Error; err != nil {
		return fmt.Errorf("event not found: %w", err)
	}

	s.record(user, "purchase_receipt", "Tickets confirmed",
		fmt.Sprintf("%d ticket(s) for %s", len(tickets), event.Name), &transaction.ID)

	data := map[string]interface{}{
		"Username":   user.Username,
		"EventName":  event.Name,
		"Venue":      event.Venue,
		"EventDate":  event.EventDate.Format("Mon, Jan 2 2006 15:04"),
		"Quantity":   len(tickets),
		"Total":      fmt.Sprintf("%.2f", transaction.TotalAmount),
		"ServiceFee": fmt.Sprintf("%.2f", transaction.ServiceFee),
		"Points":     transaction.PointsAwarded,
		"TicketsURL": fmt.Sprintf("%s/tickets", s.config.Frontend.BaseURL),
	}

	tmpl := s.getEmailTemplate("purchase_receipt")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, "Your tickets for "+event.Name, body)
}

// SendTierPromotion congratulates a user on reaching a new loyalty tier.
func (s *NotificationService) SendTierPromotion(user *models.User, tier *models.RewardTier) error {
	s.record(user, "tier_promotion", "Tier unlocked", fmt.Sprintf("Welcome to %s", tier.Name), &tier.ID)

	data := map[string]interface{}{
		"Username":   user.Username,
		"TierName":   tier.Name,
		"Points":     user.Points,
		"RewardsURL": fmt.Sprintf("%s/rewards", s.config.Frontend.BaseURL),
	}

	tmpl := s.getEmailTemplate("tier_promotion")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, "You reached "+tier.Name+"!", body)
}

// SendConnectOnboarding nudges a professional user to finish payout setup.
func (s *NotificationService) SendConnectOnboarding(user *models.User, onboardingURL string) error {
	s.record(user, "connect_onboarding", "Payout onboarding", "Finish setting up your payout account", nil)

	data := map[string]interface{}{
		"Username":      user.Username,
		"OnboardingURL": onboardingURL,
	}

	tmpl := s.getEmailTemplate("connect_onboarding")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, "Finish your payout setup", body)
}

// record writes the in-app notification row; the realtime channel picks it up.
func (s *NotificationService) record(user *models.User, typ, title, message string, resourceID *uuid.UUID) {
	notification := &models.Notification{
		Type:    typ,
		Title:   title,
		Message: message,
	}
	if user != nil {
		id := user.ID
		notification.UserID = &id
	}
	if resourceID != nil {
		notification.RelatedResourceID = resourceID
	}
	s.db.Create(notification)
}

// Helper methods
func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		// Email not configured, nothing to send
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		"purchase_receipt": {
			Subject: "Your tickets are confirmed",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>See you there, {{.Username}}!</h2>
	<p>Your {{.Quantity}} ticket(s) for <strong>{{.EventName}}</strong> at {{.Venue}} on {{.EventDate}} are confirmed.</p>
	<p>Total charged: ${{.Total}} (includes ${{.ServiceFee}} service fee)</p>
	<p>You earned <strong>{{.Points}} points</strong> on this purchase.</p>
	<a href="{{.TicketsURL}}">View your tickets</a>
	<p>NightPulse</p>
</body>
</html>`,
		},
		"tier_promotion": {
			Subject: "Tier unlocked",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Congrats {{.Username}}!</h2>
	<p>You just reached <strong>{{.TierName}}</strong> with {{.Points}} points.</p>
	<a href="{{.RewardsURL}}">See your new perks</a>
	<p>NightPulse</p>
</body>
</html>`,
		},
		"connect_onboarding": {
			Subject: "Finish your payout setup",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hi {{.Username}},</h2>
	<p>Finish connecting your payout account so your event revenue lands in your bank:</p>
	<a href="{{.OnboardingURL}}">Complete onboarding</a>
	<p>The link expires shortly; request a new one from your portal dashboard if needed.</p>
	<p>NightPulse</p>
</body>
</html>`,
		},
	}

	if tmpl, exists := templates[templateType]; exists {
		return tmpl
	}

	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Message}}</p>",
	}
}
