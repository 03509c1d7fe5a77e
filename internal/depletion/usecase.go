package depletion

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/depletion/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type UseCase interface {
	// DepleteForSaleItem resolves the external product and depletes inventory
	// for it under the policy of input.Source.
	DepleteForSaleItem(ctx context.Context, input *dto.SaleItemInput) (dto.Result, error)
	// DepleteResolved skips resolution for callers that already hold one.
	DepleteResolved(ctx context.Context, res *model.Resolution, input *dto.SaleItemInput) (dto.Result, error)
}
