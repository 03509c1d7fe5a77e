package inventory

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type UseCase interface {
	GetProductStock(ctx context.Context, orgID, productID string) (*dto.ProductStock, error)
	ListLowStock(ctx context.Context, orgID, locationID string, page, pageSize int) ([]model.InventoryItem, int, error)
	AdjustInventory(ctx context.Context, input *dto.AdjustInventoryInput) (*model.InventoryItem, error)
}
