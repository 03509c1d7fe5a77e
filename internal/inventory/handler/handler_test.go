package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUseCase struct {
	input *dto.AdjustInventoryInput
}

func (s *stubUseCase) GetProductStock(ctx context.Context, orgID, productID string) (*dto.ProductStock, error) {
	return &dto.ProductStock{ProductID: productID, TotalQuantity: 3}, nil
}

func (s *stubUseCase) ListLowStock(ctx context.Context, orgID, locationID string, page, pageSize int) ([]model.InventoryItem, int, error) {
	return []model.InventoryItem{}, 0, nil
}

func (s *stubUseCase) AdjustInventory(ctx context.Context, input *dto.AdjustInventoryInput) (*model.InventoryItem, error) {
	s.input = input
	return &model.InventoryItem{ProductID: input.ProductID, CurrentQuantity: input.QuantityChange}, nil
}

func newRouter(uc *stubUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(auth.OrganizationMiddleware())
	NewInventoryHandler(uc, logger.NewNop()).Register(r.Group(""))
	return r
}

func TestAdjustInventory_RequiresOrganization(t *testing.T) {
	r := newRouter(&stubUseCase{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/inventory/adjustments", strings.NewReader(`{}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ORGANIZATION_REQUIRED")
}

func TestAdjustInventory_BindsInput(t *testing.T) {
	uc := &stubUseCase{}
	r := newRouter(uc)

	w := httptest.NewRecorder()
	body := `{"locationId":"bar","productId":"rum","quantityChange":6,"reason":"delivery"}`
	req := httptest.NewRequest(http.MethodPost, "/inventory/adjustments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.OrganizationHeader, "org-1")
	req.Header.Set("X-User-ID", "user-9")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "org-1", uc.input.OrganizationID)
	assert.Equal(t, "user-9", uc.input.UserID)
	assert.Equal(t, 6.0, uc.input.QuantityChange)
}

func TestAdjustInventory_ValidationError(t *testing.T) {
	r := newRouter(&stubUseCase{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/inventory/adjustments", strings.NewReader(`{"productId":"rum"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.OrganizationHeader, "org-1")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}
