package inventory

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

// ErrNoInventory means the product has no inventory rows at any location.
var ErrNoInventory = errors.New("product has no inventory records")

// PlanFunc receives the locked rows of one product in stable order and
// returns the new quantity per row id. Returning an error aborts the
// transaction without writing anything.
type PlanFunc func(items []model.InventoryItem) (map[string]float64, error)

type Repository interface {
	ListByProduct(ctx context.Context, orgID, productID string) ([]model.InventoryItem, error)
	GetByProductLocation(ctx context.Context, orgID, productID, locationID string) (*model.InventoryItem, error)
	FindAll(ctx context.Context, filters *dto.InventoryFilters) ([]model.InventoryItem, int, error)
	Save(ctx context.Context, item *model.InventoryItem) error

	// DepleteProduct runs plan against a row-locked snapshot of the product's
	// inventory and persists the result in the same transaction.
	DepleteProduct(ctx context.Context, orgID, productID string, plan PlanFunc) error
}
