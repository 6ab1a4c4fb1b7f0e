// internal/i18n/keys.go
package i18n

// Translation keys. Grouped by domain; the locale JSON files carry the
// user-facing strings.
const (
	// Auth
	KeyAuthRequired       = "auth.required"
	KeyAuthInvalidToken   = "auth.invalid_token"
	KeyAuthTokenExpired   = "auth.token_expired"
	KeyAuthBadCredentials = "auth.bad_credentials"
	KeyAuthEmailTaken     = "auth.email_taken"
	KeyAccessDenied       = "auth.access_denied"

	// Validation
	KeyValidationInvalid = "validation.invalid"

	// Events
	KeyEventNotFound  = "event.not_found"
	KeyEventSoldOut   = "event.sold_out"
	KeyEventNotOnSale = "event.not_on_sale"

	// Tickets
	KeyTicketNotFound     = "ticket.not_found"
	KeyTicketAlreadyUsed  = "ticket.already_used"
	KeyTicketCancelled    = "ticket.cancelled"
	KeyTicketCheckedIn    = "ticket.checked_in"
	KeyTicketShareRepeat  = "ticket.share_repeat"
	KeyTicketShareSuccess = "ticket.share_success"

	// Payments
	KeyPaymentSuccess       = "payment.success"
	KeyPaymentFailed        = "payment.failed"
	KeyPaymentDeclined      = "payment.declined"
	KeyPaymentProcessing    = "payment.processing"
	KeyPaymentNotFound      = "payment.not_found"
	KeyPaymentProviderError = "payment.provider_error"

	// Connect
	KeyConnectNotProfessional = "connect.not_professional"
	KeyConnectNoAccount       = "connect.no_account"
	KeyConnectOnboarding      = "connect.onboarding_started"

	// Scanner
	KeyScanSessionNotFound = "scan.session_not_found"
	KeyScanNotScanning     = "scan.not_scanning"

	// Rate limiting
	KeyRateLimited = "rate.limited"
)
