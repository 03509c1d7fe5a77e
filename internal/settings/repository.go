package settings

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type Repository interface {
	// GetByOrganization returns nil, nil when the organization has no row.
	GetByOrganization(ctx context.Context, orgID string) (*model.InventorySettings, error)
	Upsert(ctx context.Context, s *model.InventorySettings) error
}
