// internal/handlers/event.go
package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nightpulse/backend/internal/i18n"
	"github.com/nightpulse/backend/internal/models"
	"github.com/nightpulse/backend/internal/services"
	"github.com/nightpulse/backend/internal/utils"
)

type EventHandler struct {
	eventService   *services.EventService
	storageService *services.StorageService
}

func NewEventHandler(eventService *services.EventService, storageService *services.StorageService) *EventHandler {
	return &EventHandler{
		eventService:   eventService,
		storageService: storageService,
	}
}

// GET /events
func (h *EventHandler) ListEvents(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var organizerID *uuid.UUID
	if c.Query("mine") == "true" {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		organizerID = &userID
	}

	events, total, err := h.eventService.List(params, organizerID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(events, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.eventService.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFoundResponse(c, "event")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, event)
}

// POST /events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	event, err := h.eventService.Create(userID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, event)
}

// PUT /events/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "id"), nil)
		return
	}

	var req services.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	event, err := h.eventService.Update(c.Request.Context(), userID, eventID, isAdmin(c), &req)
	if err != nil {
		h.writeOwnershipError(c, err)
		return
	}

	utils.SuccessResponse(c, event)
}

// POST /events/:id/publish
func (h *EventHandler) PublishEvent(c *gin.Context) {
	h.setStatus(c, h.eventService.Publish)
}

// POST /events/:id/cancel
func (h *EventHandler) CancelEvent(c *gin.Context) {
	h.setStatus(c, h.eventService.Cancel)
}

func (h *EventHandler) setStatus(c *gin.Context, fn func(ctx context.Context, organizerID, eventID uuid.UUID, isAdmin bool) (*models.Event, error)) {
	lang := utils.GetLangFromContext(c)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "id"), nil)
		return
	}

	event, err := fn(c.Request.Context(), userID, eventID, isAdmin(c))
	if err != nil {
		h.writeOwnershipError(c, err)
		return
	}

	utils.SuccessResponse(c, event)
}

// DELETE /events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "id"), nil)
		return
	}

	if err := h.eventService.Delete(userID, eventID, isAdmin(c)); err != nil {
		h.writeOwnershipError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// POST /events/:id/flyer
func (h *EventHandler) UploadFlyer(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "id"), nil)
		return
	}

	file, header, err := c.Request.FormFile("flyer")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "flyer"), nil)
		return
	}
	defer file.Close()

	if err := h.storageService.ValidateImage(file); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	result, err := h.storageService.UploadFile(file, header, h.storageService.GetDefaultUploadOptions("flyers"))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	if err := h.eventService.SetFlyerURL(userID, eventID, isAdmin(c), result.URL); err != nil {
		h.writeOwnershipError(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}

func (h *EventHandler) writeOwnershipError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.NotFoundResponse(c, "event")
	case errors.Is(err, services.ErrNotEventOwner):
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyAccessDenied))
	default:
		utils.BadRequestResponse(c, err.Error(), nil)
	}
}

func isAdmin(c *gin.Context) bool {
	role, exists := utils.GetRoleFromContext(c)
	return exists && role == string(models.RoleAdmin)
}
