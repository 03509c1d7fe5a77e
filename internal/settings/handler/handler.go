package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/settings"
	"github.com/fekuna/omnipos-inventory-service/internal/settings/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/apperror"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SettingsHandler struct {
	uc     settings.UseCase
	logger logger.ZapLogger
}

func NewSettingsHandler(uc settings.UseCase, log logger.ZapLogger) *SettingsHandler {
	return &SettingsHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *SettingsHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/settings", h.GetSettings)
	rg.PUT("/settings", h.UpdateSettings)
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	orgID := auth.GetOrganizationID(c.Request.Context())
	if orgID == "" {
		apperror.Respond(c, apperror.ErrOrganizationRequired())
		return
	}

	s, err := h.uc.GetSettings(c.Request.Context(), orgID)
	if err != nil {
		h.logger.Error("failed to load settings", zap.String("organization_id", orgID), zap.Error(err))
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	orgID := auth.GetOrganizationID(c.Request.Context())
	if orgID == "" {
		apperror.Respond(c, apperror.ErrOrganizationRequired())
		return
	}

	var input dto.UpdateSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperror.Respond(c, apperror.ErrValidation(err.Error()))
		return
	}
	input.OrganizationID = orgID

	s, err := h.uc.UpdateSettings(c.Request.Context(), &input)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}
