package possync

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type Repository interface {
	FindIntegration(ctx context.Context, id string) (*model.POSIntegration, error)
	// ListActiveIntegrations lists active integrations of orgID, or of every
	// organization when orgID is empty.
	ListActiveIntegrations(ctx context.Context, orgID string) ([]model.POSIntegration, error)
	ListLocations(ctx context.Context, integrationID string) ([]model.POSLocation, error)
	LatestApprovedCount(ctx context.Context, orgID string) (*model.InventoryCount, error)
	// UpdateSyncStatus sets the status and, when lastSyncAt is non-nil,
	// advances the sales watermark.
	UpdateSyncStatus(ctx context.Context, integrationID, status string, lastSyncAt *time.Time) error
	CreateSyncLog(ctx context.Context, l *model.SyncLog) error
}
