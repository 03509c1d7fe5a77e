package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/webhook"
	"github.com/fekuna/omnipos-inventory-service/internal/webhook/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/apperror"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type WebhookHandler struct {
	uc     webhook.UseCase
	logger logger.ZapLogger
}

func NewWebhookHandler(uc webhook.UseCase, log logger.ZapLogger) *WebhookHandler {
	return &WebhookHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *WebhookHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/pos-webhooks/sale", h.Sale)
}

// Sale always runs under the webhook policy, whatever the payload's source says.
func (h *WebhookHandler) Sale(c *gin.Context) {
	var req dto.SalePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, apperror.ErrValidation(err.Error()))
		return
	}

	result, err := h.uc.Ingest(c.Request.Context(), &req, model.TriggerWebhook)
	if err != nil {
		h.logger.Error("webhook sale rejected",
			zap.String("integration_id", req.IntegrationID),
			zap.String("external_order_id", req.ExternalOrderID),
			zap.Error(err),
		)
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
