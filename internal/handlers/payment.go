// internal/handlers/payment.go
package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nightpulse/backend/internal/i18n"
	"github.com/nightpulse/backend/internal/models"
	"github.com/nightpulse/backend/internal/services"
	"github.com/nightpulse/backend/internal/utils"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// GET /payments/quote
func (h *PaymentHandler) GetQuote(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	eventID, err := uuid.Parse(c.Query("event_id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "event_id"), nil)
		return
	}

	ticketType := models.TicketType(c.DefaultQuery("ticket_type", string(models.TicketTypeIndividual)))
	if !ticketType.Valid() {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "ticket_type"), nil)
		return
	}

	quantity := 1
	if q := c.Query("quantity"); q != "" {
		parsed, err := strconv.Atoi(q)
		if err != nil || parsed < 1 {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "quantity"), nil)
			return
		}
		quantity = parsed
	}

	quote, event, err := h.paymentService.Quote(eventID, ticketType, quantity)
	if err != nil {
		h.writeServiceError(c, lang, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"quote": quote,
		"event": gin.H{
			"id":        event.ID,
			"name":      event.Name,
			"remaining": event.Remaining(),
		},
	})
}

// POST /payments/intent
func (h *PaymentHandler) CreatePurchaseIntent(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.CreatePurchaseIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	response, err := h.paymentService.CreatePurchaseIntent(userID, &req)
	if err != nil {
		h.writeServiceError(c, lang, err)
		return
	}

	utils.SuccessResponse(c, response)
}

// POST /payments/confirm
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	if _, ok := requireUserID(c); !ok {
		return
	}

	var req services.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	transaction, err := h.paymentService.ConfirmPayment(c.Request.Context(), &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	var message string
	switch transaction.Status {
	case models.TransactionStatusCompleted:
		message = i18n.T(lang, i18n.KeyPaymentSuccess)
	case models.TransactionStatusPending:
		message = i18n.T(lang, i18n.KeyPaymentProcessing)
	default:
		message = i18n.T(lang, i18n.KeyPaymentFailed)
	}

	utils.SuccessResponse(c, gin.H{
		"message":     message,
		"transaction": transaction,
	})
}

// GET /payments/history
func (h *PaymentHandler) GetPaymentHistory(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	transactions, total, err := h.paymentService.GetPaymentHistory(userID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(transactions, total, params)
	utils.PaginatedResponse(c, result)
}

func (h *PaymentHandler) writeServiceError(c *gin.Context, lang string, err error) {
	switch {
	case errors.Is(err, services.ErrEventSoldOut):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyEventSoldOut))
	case errors.Is(err, services.ErrEventNotOnSale):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyEventNotOnSale), nil)
	case errors.Is(err, services.ErrNoPayoutRoute):
		utils.InternalErrorResponse(c, err.Error())
	default:
		utils.BadRequestResponse(c, err.Error(), nil)
	}
}
