package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/apperror"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/inventory")
	g.GET("/products/:productId", h.GetProductStock)
	g.GET("/low-stock", h.ListLowStock)
	g.POST("/adjustments", h.AdjustInventory)
}

func (h *InventoryHandler) GetProductStock(c *gin.Context) {
	orgID := auth.GetOrganizationID(c.Request.Context())
	if orgID == "" {
		apperror.Respond(c, apperror.ErrOrganizationRequired())
		return
	}

	stock, err := h.uc.GetProductStock(c.Request.Context(), orgID, c.Param("productId"))
	if err != nil {
		h.logger.Error("failed to load product stock", zap.String("product_id", c.Param("productId")), zap.Error(err))
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, stock)
}

func (h *InventoryHandler) ListLowStock(c *gin.Context) {
	orgID := auth.GetOrganizationID(c.Request.Context())
	if orgID == "" {
		apperror.Respond(c, apperror.ErrOrganizationRequired())
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	items, total, err := h.uc.ListLowStock(c.Request.Context(), orgID, c.Query("location_id"), page, pageSize)
	if err != nil {
		h.logger.Error("failed to list low stock", zap.Error(err))
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func (h *InventoryHandler) AdjustInventory(c *gin.Context) {
	orgID := auth.GetOrganizationID(c.Request.Context())
	if orgID == "" {
		apperror.Respond(c, apperror.ErrOrganizationRequired())
		return
	}

	var input dto.AdjustInventoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperror.Respond(c, apperror.ErrValidation(err.Error()))
		return
	}
	input.OrganizationID = orgID
	input.UserID = auth.GetUserID(c)

	item, err := h.uc.AdjustInventory(c.Request.Context(), &input)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
