package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/depletion/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEngine struct {
	got *dto.SaleItemInput
	err error
}

func (s *stubEngine) DepleteForSaleItem(ctx context.Context, in *dto.SaleItemInput) (dto.Result, error) {
	s.got = in
	if s.err != nil {
		return nil, s.err
	}
	return &dto.DirectResult{ProductID: "vodka", DepletedAmount: in.QuantitySold}, nil
}

func (s *stubEngine) DepleteResolved(ctx context.Context, res *model.Resolution, in *dto.SaleItemInput) (dto.Result, error) {
	return nil, nil
}

func serve(engine *stubEngine, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(auth.OrganizationMiddleware())
	NewDepletionHandler(engine, logger.NewNop()).Register(r.Group(""))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/depletions/manual", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.OrganizationHeader, "org-1")
	r.ServeHTTP(w, req)
	return w
}

func TestManualDepletion_UsesManualSource(t *testing.T) {
	engine := &stubEngine{}
	w := serve(engine, `{"integrationId":"int-1","externalProductId":"ext-1","quantity":2}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.TriggerManual, engine.got.Source)
	assert.Equal(t, "org-1", engine.got.OrganizationID)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	result := body["result"].(map[string]any)
	assert.Equal(t, "direct", result["type"])
}

func TestManualDepletion_InsufficientIsConflict(t *testing.T) {
	engine := &stubEngine{err: &dto.InsufficientInventoryError{ProductID: "vodka", Required: 3, Available: 1}}
	w := serve(engine, `{"integrationId":"int-1","externalProductId":"ext-1","quantity":3}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "CONFLICT")
}

func TestManualDepletion_RejectsNonPositiveQuantity(t *testing.T) {
	w := serve(&stubEngine{}, `{"integrationId":"int-1","externalProductId":"ext-1","quantity":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
