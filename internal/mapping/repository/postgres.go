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

func (r *PGRepository) FindPOSProduct(ctx context.Context, orgID, integrationID, externalProductID string) (*model.POSProduct, error) {
	var p model.POSProduct
	query := `
        SELECT * FROM pos_products
        WHERE organization_id = $1 AND integration_id = $2 AND external_product_id = $3
        LIMIT 1`
	err := r.DB.GetContext(ctx, &p, query, orgID, integrationID, externalProductID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) CreatePOSProduct(ctx context.Context, p *model.POSProduct) error {
	query := `
        INSERT INTO pos_products (
            id, organization_id, integration_id, external_product_id, name,
            serving_unit, serving_size, is_placeholder, created_at, updated_at
        )
        VALUES (
            :id, :organization_id, :integration_id, :external_product_id, :name,
            :serving_unit, :serving_size, :is_placeholder, :created_at, :updated_at
        )
        ON CONFLICT (organization_id, integration_id, external_product_id) DO NOTHING
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) FindConfirmedProductMapping(ctx context.Context, posProductID string) (*model.ProductMapping, error) {
	var m model.ProductMapping
	query := `
        SELECT id, pos_product_id, product_id, serving_unit, serving_size, is_confirmed
        FROM product_mappings
        WHERE pos_product_id = $1 AND is_confirmed = true
        ORDER BY updated_at DESC
        LIMIT 1`
	err := r.DB.GetContext(ctx, &m, query, posProductID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *PGRepository) FindActiveRecipeMapping(ctx context.Context, posProductID string) (*model.RecipePOSMapping, error) {
	var m model.RecipePOSMapping
	query := `
        SELECT id, pos_product_id, recipe_id, is_confirmed, is_active
        FROM recipe_pos_mappings
        WHERE pos_product_id = $1 AND is_confirmed = true AND is_active = true
        ORDER BY updated_at DESC
        LIMIT 1`
	err := r.DB.GetContext(ctx, &m, query, posProductID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}
