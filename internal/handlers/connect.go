// internal/handlers/connect.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nightpulse/backend/internal/i18n"
	"github.com/nightpulse/backend/internal/services"
	"github.com/nightpulse/backend/internal/utils"
)

type ConnectHandler struct {
	connectService *services.ConnectService
}

func NewConnectHandler(connectService *services.ConnectService) *ConnectHandler {
	return &ConnectHandler{
		connectService: connectService,
	}
}

// POST /connect/accounts
func (h *ConnectHandler) CreateAccount(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	response, err := h.connectService.CreateAccount(userID)
	if err != nil {
		if errors.Is(err, services.ErrNotProfessional) {
			utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyConnectNotProfessional))
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, response)
}

// POST /connect/account-links
func (h *ConnectHandler) CreateAccountLink(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	url, err := h.connectService.CreateAccountLink(userID)
	if err != nil {
		if errors.Is(err, services.ErrNoConnectAccount) {
			utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", i18n.T(lang, i18n.KeyConnectNoAccount), nil)
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"onboarding_url": url,
	})
}

// GET /connect/status
func (h *ConnectHandler) GetAccountStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	status, err := h.connectService.AccountStatus(userID)
	if err != nil {
		if errors.Is(err, services.ErrNoConnectAccount) {
			utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", i18n.T(lang, i18n.KeyConnectNoAccount), nil)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, status)
}
