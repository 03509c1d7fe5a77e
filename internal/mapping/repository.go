package mapping

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

// Repository lookups return nil, nil when nothing matches.
type Repository interface {
	FindPOSProduct(ctx context.Context, orgID, integrationID, externalProductID string) (*model.POSProduct, error)
	// CreatePOSProduct inserts p unless the external id already exists.
	CreatePOSProduct(ctx context.Context, p *model.POSProduct) error
	FindConfirmedProductMapping(ctx context.Context, posProductID string) (*model.ProductMapping, error)
	FindActiveRecipeMapping(ctx context.Context, posProductID string) (*model.RecipePOSMapping, error)
}
