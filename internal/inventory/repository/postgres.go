package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/jmoiron/sqlx"
)

const itemColumns = `id, organization_id, product_id, location_id, current_quantity, minimum_quantity, created_at, updated_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) ListByProduct(ctx context.Context, orgID, productID string) ([]model.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items
        WHERE organization_id = $1 AND product_id = $2
        ORDER BY created_at, id`

	var items []model.InventoryItem
	if err := r.DB.SelectContext(ctx, &items, query, orgID, productID); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PGRepository) GetByProductLocation(ctx context.Context, orgID, productID, locationID string) (*model.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items
        WHERE organization_id = $1 AND product_id = $2 AND location_id = $3`

	var item model.InventoryItem
	err := r.DB.GetContext(ctx, &item, query, orgID, productID, locationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.InventoryFilters) ([]model.InventoryItem, int, error) {
	var items []model.InventoryItem
	var count int

	conditions := []string{"organization_id = :organization_id"}
	args := map[string]interface{}{"organization_id": f.OrganizationID}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.LocationID != "" {
		conditions = append(conditions, "location_id = :location_id")
		args["location_id"] = f.LocationID
	}
	if f.LowStock {
		conditions = append(conditions, "minimum_quantity > 0 AND current_quantity <= minimum_quantity")
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countQuery := "SELECT count(*) FROM inventory_items" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			rows.Close()
			return nil, 0, err
		}
	}
	rows.Close()

	query := "SELECT " + itemColumns + " FROM inventory_items" + whereClause + " ORDER BY updated_at DESC"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) Save(ctx context.Context, item *model.InventoryItem) error {
	query := `
        INSERT INTO inventory_items (
            id, organization_id, product_id, location_id,
            current_quantity, minimum_quantity, created_at, updated_at
        )
        VALUES (
            :id, :organization_id, :product_id, :location_id,
            :current_quantity, :minimum_quantity, :created_at, :updated_at
        )
        ON CONFLICT (organization_id, product_id, location_id)
        DO UPDATE SET
            current_quantity = EXCLUDED.current_quantity,
            updated_at = EXCLUDED.updated_at
    `
	_, err := r.DB.NamedExecContext(ctx, query, item)
	return err
}

func (r *PGRepository) DepleteProduct(ctx context.Context, orgID, productID string, plan inventory.PlanFunc) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	lockQuery := `SELECT ` + itemColumns + ` FROM inventory_items
        WHERE organization_id = $1 AND product_id = $2
        ORDER BY created_at, id
        FOR UPDATE`

	var items []model.InventoryItem
	if err := tx.SelectContext(ctx, &items, lockQuery, orgID, productID); err != nil {
		return fmt.Errorf("failed to lock inventory: %w", err)
	}
	if len(items) == 0 {
		return inventory.ErrNoInventory
	}

	updates, err := plan(items)
	if err != nil {
		return err
	}

	// Iterate the locked rows rather than the map so writes keep row order.
	for _, item := range items {
		qty, ok := updates[item.ID]
		if !ok || qty == item.CurrentQuantity {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE inventory_items SET current_quantity = $1, updated_at = NOW() WHERE id = $2`,
			qty, item.ID,
		); err != nil {
			return fmt.Errorf("failed to update inventory item %s: %w", item.ID, err)
		}
	}

	return tx.Commit()
}
