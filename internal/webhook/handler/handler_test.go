package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/webhook/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/apperror"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIngest struct {
	source  model.TriggerSource
	payload *dto.SalePayload
	err     error
}

func (s *stubIngest) Ingest(ctx context.Context, p *dto.SalePayload, source model.TriggerSource) (*dto.IngestResult, error) {
	s.payload = p
	s.source = source
	if s.err != nil {
		return nil, s.err
	}
	return &dto.IngestResult{
		Success:      false,
		Processed:    1,
		Errors:       1,
		Results:      []dto.ItemResult{},
		ErrorDetails: []dto.ItemError{{ExternalProductID: "x", Error: "unmapped"}},
	}, nil
}

func post(uc *stubIngest, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewWebhookHandler(uc, logger.NewNop()).Register(r.Group(""))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/pos-webhooks/sale", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

const validBody = `{
	"integrationId": "int-1",
	"externalOrderId": "ord-9",
	"timestamp": "2026-03-01T20:00:00Z",
	"source": "manual",
	"items": [{"externalProductId": "beer", "quantity": 2}, {"externalProductId": "x", "quantity": 1}]
}`

func TestSale_PartialFailureReturns200(t *testing.T) {
	uc := &stubIngest{}
	w := post(uc, validBody)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.TriggerWebhook, uc.source)
	require.Len(t, uc.payload.Items, 2)

	var body dto.IngestResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, 1, body.Errors)
}

func TestSale_ValidationAndRunLevelErrors(t *testing.T) {
	w := post(&stubIngest{}, `{"integrationId":"int-1","externalOrderId":"o","timestamp":"2026-03-01T20:00:00Z","items":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(&stubIngest{err: apperror.ErrIntegrationInactive("int-1")}, validBody)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), apperror.CodeIntegrationInactive)
}
