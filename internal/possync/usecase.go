package possync

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/possync/dto"
)

type UseCase interface {
	SyncIntegration(ctx context.Context, orgID, integrationID string, opts *dto.SyncOptions) (*dto.SyncResult, error)
	SyncOrganization(ctx context.Context, orgID string, opts *dto.SyncOptions) (*dto.BulkSyncResult, error)
	SyncAll(ctx context.Context, opts *dto.SyncOptions) (*dto.BulkSyncResult, error)
}

// ErrPaginationTruncated means the provider had more pages than a client will
// follow; the orders returned so far are incomplete.
var ErrPaginationTruncated = errors.New("pos order pagination truncated")

// POSClient fetches closed orders for one location.
type POSClient interface {
	FetchOrdersByBusinessDate(ctx context.Context, integration *model.POSIntegration, location *model.POSLocation, businessDate string) ([]dto.POSOrder, error)
	FetchOrdersByRange(ctx context.Context, integration *model.POSIntegration, location *model.POSLocation, start, end time.Time) ([]dto.POSOrder, error)
}
