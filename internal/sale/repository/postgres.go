package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/sale"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

const uniqueViolation = "23505"

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) ExistsByExternalID(ctx context.Context, orgID, externalID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM sales WHERE organization_id = $1 AND external_id = $2)`
	if err := r.DB.GetContext(ctx, &exists, query, orgID, externalID); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PGRepository) CreateWithItems(ctx context.Context, s *model.Sale, items []model.SaleItem) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insertSale := `
        INSERT INTO sales (
            id, organization_id, integration_id, external_id,
            total_amount, sale_timestamp, created_at
        )
        VALUES (
            :id, :organization_id, :integration_id, :external_id,
            :total_amount, :sale_timestamp, :created_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, insertSale, s); err != nil {
		if isUniqueViolation(err) {
			return sale.ErrDuplicateSale
		}
		return fmt.Errorf("failed to insert sale: %w", err)
	}

	insertItem := `
        INSERT INTO sale_items (
            id, sale_id, pos_product_id, product_id, recipe_id, quantity, unit_price
        )
        VALUES (
            :id, :sale_id, :pos_product_id, :product_id, :recipe_id, :quantity, :unit_price
        )
    `
	for i := range items {
		items[i].SaleID = s.ID
		if _, err := tx.NamedExecContext(ctx, insertItem, &items[i]); err != nil {
			return fmt.Errorf("failed to insert sale item: %w", err)
		}
	}

	return tx.Commit()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
