// internal/handlers/ticket.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nightpulse/backend/internal/i18n"
	"github.com/nightpulse/backend/internal/models"
	"github.com/nightpulse/backend/internal/services"
	"github.com/nightpulse/backend/internal/utils"
)

type TicketHandler struct {
	ticketService *services.TicketService
}

func NewTicketHandler(ticketService *services.TicketService) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
	}
}

type shareTicketRequest struct {
	RecipientName string `json:"recipient_name" validate:"required,min=1,max=255"`
}

type shareSocialRequest struct {
	Channel string `json:"channel" validate:"required"`
}

// GET /tickets
func (h *TicketHandler) GetMyTickets(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	tickets, total, err := h.ticketService.GetUserTickets(userID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(tickets, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /tickets/:id/share
func (h *TicketHandler) ShareTicket(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "id"), nil)
		return
	}

	var req shareTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	balance, err := h.ticketService.ShareTicket(c.Request.Context(), userID, ticketID, req.RecipientName)
	if err != nil {
		h.writeShareError(c, lang, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyTicketShareSuccess),
		"points":  balance,
	})
}

// POST /tickets/:id/share-social
func (h *TicketHandler) ShareSocial(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "id"), nil)
		return
	}

	var req shareSocialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	channel := models.ShareChannel(req.Channel)
	if !channel.Valid() {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "channel"), nil)
		return
	}

	balance, err := h.ticketService.ShareSocial(c.Request.Context(), userID, ticketID, channel)
	if err != nil {
		h.writeShareError(c, lang, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyTicketShareSuccess),
		"points":  balance,
	})
}

func (h *TicketHandler) writeShareError(c *gin.Context, lang string, err error) {
	switch {
	case errors.Is(err, services.ErrNotTicketOwner):
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyAccessDenied))
	case errors.Is(err, services.ErrAlreadyShared):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyTicketShareRepeat))
	default:
		utils.BadRequestResponse(c, err.Error(), nil)
	}
}
