package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/mapping"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type mappingUseCase struct {
	repo   mapping.Repository
	logger logger.ZapLogger
}

func NewMappingUseCase(repo mapping.Repository, log logger.ZapLogger) mapping.UseCase {
	return &mappingUseCase{
		repo:   repo,
		logger: log,
	}
}

// Resolve checks the confirmed product mapping first, then the active recipe
// mapping.
func (uc *mappingUseCase) Resolve(ctx context.Context, key mapping.Key) (*model.Resolution, error) {
	posProduct, err := uc.repo.FindPOSProduct(ctx, key.OrganizationID, key.IntegrationID, key.ExternalProductID)
	if err != nil {
		return nil, fmt.Errorf("find POS product: %w", err)
	}
	if posProduct == nil {
		return nil, &mapping.UnresolvedMappingError{
			ExternalProductID: key.ExternalProductID,
			POSProductID:      uc.createPlaceholder(ctx, key),
			Placeholder:       true,
		}
	}

	pm, err := uc.repo.FindConfirmedProductMapping(ctx, posProduct.ID)
	if err != nil {
		return nil, fmt.Errorf("find product mapping: %w", err)
	}
	if pm != nil {
		return &model.Resolution{POSProduct: posProduct, ProductMapping: pm}, nil
	}

	rm, err := uc.repo.FindActiveRecipeMapping(ctx, posProduct.ID)
	if err != nil {
		return nil, fmt.Errorf("find recipe mapping: %w", err)
	}
	if rm != nil {
		return &model.Resolution{POSProduct: posProduct, RecipeMapping: rm}, nil
	}

	return nil, &mapping.UnresolvedMappingError{
		ExternalProductID: key.ExternalProductID,
		POSProductID:      posProduct.ID,
	}
}

// createPlaceholder returns the id of the catalog row now holding the external
// id, which is another writer's row when the insert lost a race. It returns ""
// when neither the insert nor the re-read succeeded.
func (uc *mappingUseCase) createPlaceholder(ctx context.Context, key mapping.Key) string {
	name := key.Name
	if name == "" {
		name = key.ExternalProductID
	}
	now := time.Now().UTC()
	p := &model.POSProduct{
		BaseModel:         model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		OrganizationID:    key.OrganizationID,
		IntegrationID:     key.IntegrationID,
		ExternalProductID: key.ExternalProductID,
		Name:              name,
		IsPlaceholder:     true,
	}
	if err := uc.repo.CreatePOSProduct(ctx, p); err != nil {
		uc.logger.Warn("failed to create placeholder POS product",
			zap.String("external_product_id", key.ExternalProductID),
			zap.Error(err),
		)
		return ""
	}

	stored, err := uc.repo.FindPOSProduct(ctx, key.OrganizationID, key.IntegrationID, key.ExternalProductID)
	if err != nil || stored == nil {
		uc.logger.Warn("placeholder POS product not readable after insert",
			zap.String("external_product_id", key.ExternalProductID),
			zap.Error(err),
		)
		return ""
	}
	return stored.ID
}
