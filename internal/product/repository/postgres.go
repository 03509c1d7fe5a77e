package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindByID(ctx context.Context, orgID, id string) (*model.Product, error) {
	var p model.Product
	query := `SELECT * FROM products WHERE id = $1 AND organization_id = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &p, query, id, orgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindRecipe(ctx context.Context, orgID, recipeID string) (*model.Recipe, error) {
	var recipe model.Recipe
	err := r.DB.GetContext(ctx, &recipe,
		`SELECT id, organization_id, name FROM recipes WHERE id = $1 AND organization_id = $2`,
		recipeID, orgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	query := `
        SELECT id, recipe_id, product_id, quantity, unit, sort_order
        FROM recipe_items
        WHERE recipe_id = $1
        ORDER BY sort_order, id`
	if err := r.DB.SelectContext(ctx, &recipe.Items, query, recipeID); err != nil {
		return nil, err
	}
	return &recipe, nil
}
