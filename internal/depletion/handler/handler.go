package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/depletion"
	"github.com/fekuna/omnipos-inventory-service/internal/depletion/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/mapping"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/apperror"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DepletionHandler struct {
	uc     depletion.UseCase
	logger logger.ZapLogger
}

func NewDepletionHandler(uc depletion.UseCase, log logger.ZapLogger) *DepletionHandler {
	return &DepletionHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *DepletionHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/depletions/manual", h.ManualDepletion)
}

// ManualDepletion depletes one catalog entry under the manual policy.
func (h *DepletionHandler) ManualDepletion(c *gin.Context) {
	orgID := auth.GetOrganizationID(c.Request.Context())
	if orgID == "" {
		apperror.Respond(c, apperror.ErrOrganizationRequired())
		return
	}

	var req dto.ManualDepletionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, apperror.ErrValidation(err.Error()))
		return
	}

	result, err := h.uc.DepleteForSaleItem(c.Request.Context(), &dto.SaleItemInput{
		OrganizationID:    orgID,
		IntegrationID:     req.IntegrationID,
		ExternalProductID: req.ExternalProductID,
		QuantitySold:      req.Quantity,
		ExternalOrderID:   req.ExternalOrderID,
		Timestamp:         time.Now(),
		Source:            model.TriggerManual,
		UserID:            auth.GetUserID(c),
	})
	if err != nil {
		h.logger.Warn("manual depletion failed",
			zap.String("external_product_id", req.ExternalProductID),
			zap.Error(err),
		)
		apperror.Respond(c, toAppError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}

func toAppError(err error) error {
	var insufficient *dto.InsufficientInventoryError
	if errors.As(err, &insufficient) {
		return apperror.ErrConflict(insufficient.Error()).
			WithDetail("product_id", insufficient.ProductID).
			Wrap(err)
	}
	var unresolved *mapping.UnresolvedMappingError
	if errors.As(err, &unresolved) {
		return apperror.ErrValidation(unresolved.Error()).
			WithDetail("external_product_id", unresolved.ExternalProductID).
			Wrap(err)
	}
	return err
}
