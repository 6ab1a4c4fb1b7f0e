// internal/handlers/scanner.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nightpulse/backend/internal/i18n"
	"github.com/nightpulse/backend/internal/services"
	"github.com/nightpulse/backend/internal/utils"
)

type ScannerHandler struct {
	scanService *services.ScanService
}

func NewScannerHandler(scanService *services.ScanService) *ScannerHandler {
	return &ScannerHandler{
		scanService: scanService,
	}
}

type openSessionRequest struct {
	EventID    uuid.UUID `json:"event_id" validate:"required"`
	DeviceName string    `json:"device_name" validate:"required,min=1,max=100"`
}

type scanRequest struct {
	Code string `json:"code" validate:"required,min=1,max=255"`
}

// POST /scanner/sessions
func (h *ScannerHandler) OpenSession(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req openSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	session := h.scanService.OpenSession(req.EventID, userID, req.DeviceName)
	utils.CreatedResponse(c, session)
}

// GET /scanner/sessions/:id
func (h *ScannerHandler) GetSession(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid session ID", nil)
		return
	}

	session, err := h.scanService.GetSession(sessionID, userID)
	if err != nil {
		h.writeSessionError(c, err)
		return
	}

	utils.SuccessResponse(c, session)
}

// POST /scanner/sessions/:id/scan
func (h *ScannerHandler) Scan(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid session ID", nil)
		return
	}

	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	outcome, err := h.scanService.Scan(c.Request.Context(), sessionID, userID, req.Code)
	if err != nil {
		h.writeSessionError(c, err)
		return
	}

	// A rejected ticket is still a successful scan call; the outcome carries
	// the localized reason key for the scanner UI.
	if outcome.Reason != "" {
		outcome.Reason = i18n.T(lang, outcome.Reason)
	}

	utils.SuccessResponse(c, outcome)
}

// DELETE /scanner/sessions/:id
func (h *ScannerHandler) CloseSession(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid session ID", nil)
		return
	}

	if err := h.scanService.CloseSession(sessionID, userID); err != nil {
		h.writeSessionError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"closed": true})
}

func (h *ScannerHandler) writeSessionError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", i18n.T(lang, i18n.KeyScanSessionNotFound), nil)
	case errors.Is(err, services.ErrSessionWrongDevice):
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyAccessDenied))
	case errors.Is(err, services.ErrInvalidTransition):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyScanNotScanning))
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}
