package usecase

import (
	"context"
	"testing"
	"time"

	depletiondto "github.com/fekuna/omnipos-inventory-service/internal/depletion/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/mapping"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/webhook/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/apperror"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIntegrations map[string]*model.POSIntegration

func (f fakeIntegrations) FindIntegration(ctx context.Context, id string) (*model.POSIntegration, error) {
	return f[id], nil
}

type fakeEngine struct {
	inputs []*depletiondto.SaleItemInput
}

func (e *fakeEngine) DepleteForSaleItem(ctx context.Context, in *depletiondto.SaleItemInput) (depletiondto.Result, error) {
	e.inputs = append(e.inputs, in)
	if in.ExternalProductID == "unmapped" {
		return nil, &mapping.UnresolvedMappingError{ExternalProductID: in.ExternalProductID}
	}
	return &depletiondto.DirectResult{ProductID: "p-" + in.ExternalProductID, DepletedAmount: in.QuantitySold}, nil
}

func (e *fakeEngine) DepleteResolved(ctx context.Context, res *model.Resolution, in *depletiondto.SaleItemInput) (depletiondto.Result, error) {
	return nil, nil
}

func integrations() fakeIntegrations {
	return fakeIntegrations{
		"int-1":   {BaseModel: model.BaseModel{ID: "int-1"}, OrganizationID: "org-1", IsActive: true},
		"int-off": {BaseModel: model.BaseModel{ID: "int-off"}, OrganizationID: "org-1"},
	}
}

func payload(integrationID string, items ...dto.SaleItemPayload) *dto.SalePayload {
	return &dto.SalePayload{
		IntegrationID:   integrationID,
		ExternalOrderID: "ord-1",
		Timestamp:       time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC),
		Items:           items,
	}
}

func TestIngest_PartialFailureStillSucceedsPerItem(t *testing.T) {
	engine := &fakeEngine{}
	uc := NewWebhookUseCase(integrations(), engine, nil, logger.NewNop())

	res, err := uc.Ingest(context.Background(), payload("int-1",
		dto.SaleItemPayload{ExternalProductID: "beer", Quantity: 2},
		dto.SaleItemPayload{ExternalProductID: "unmapped", Quantity: 1},
	), model.TriggerWebhook)
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 1, res.Errors)
	require.Len(t, res.ErrorDetails, 1)
	assert.Equal(t, "unmapped", res.ErrorDetails[0].ExternalProductID)

	require.Len(t, engine.inputs, 2)
	assert.Equal(t, "org-1", engine.inputs[0].OrganizationID)
	assert.Equal(t, model.TriggerWebhook, engine.inputs[0].Source)
	assert.Equal(t, "ord-1", engine.inputs[0].ExternalOrderID)
}

func TestIngest_RunLevelErrors(t *testing.T) {
	uc := NewWebhookUseCase(integrations(), &fakeEngine{}, nil, logger.NewNop())
	item := dto.SaleItemPayload{ExternalProductID: "beer", Quantity: 1}

	_, err := uc.Ingest(context.Background(), payload("missing", item), model.TriggerWebhook)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeIntegrationNotFound, appErr.Code)

	_, err = uc.Ingest(context.Background(), payload("int-off", item), model.TriggerWebhook)
	appErr, _ = apperror.As(err)
	assert.Equal(t, apperror.CodeIntegrationInactive, appErr.Code)

	_, err = uc.Ingest(context.Background(), payload("int-1"), model.TriggerWebhook)
	appErr, _ = apperror.As(err)
	assert.Equal(t, apperror.CodeValidationError, appErr.Code)
}
