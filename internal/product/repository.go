package product

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

// Repository is read-only; catalog maintenance happens elsewhere.
type Repository interface {
	FindByID(ctx context.Context, orgID, id string) (*model.Product, error)
	// FindRecipe returns the recipe with its items in sort order.
	FindRecipe(ctx context.Context, orgID, recipeID string) (*model.Recipe, error)
}
