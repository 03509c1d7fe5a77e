package webhook

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/webhook/dto"
)

type UseCase interface {
	// Ingest depletes every item of payload immediately. No sale record is
	// written and per-item failures do not fail the call.
	Ingest(ctx context.Context, payload *dto.SalePayload, source model.TriggerSource) (*dto.IngestResult, error)
}

type IntegrationRepository interface {
	FindIntegration(ctx context.Context, id string) (*model.POSIntegration, error)
}
