package sale

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

// ErrDuplicateSale is returned when another writer already stored a sale
// with the same external id.
var ErrDuplicateSale = errors.New("sale already recorded")

type Repository interface {
	ExistsByExternalID(ctx context.Context, orgID, externalID string) (bool, error)
	// CreateWithItems stores the sale and its items in one transaction.
	CreateWithItems(ctx context.Context, s *model.Sale, items []model.SaleItem) error
}
