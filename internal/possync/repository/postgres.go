package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const integrationColumns = `id, organization_id, provider, access_token, is_active, last_sales_sync_at, sync_status, created_at, updated_at`

func (r *PGRepository) FindIntegration(ctx context.Context, id string) (*model.POSIntegration, error) {
	var in model.POSIntegration
	query := `SELECT ` + integrationColumns + ` FROM pos_integrations WHERE id = $1`
	err := r.DB.GetContext(ctx, &in, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &in, nil
}

func (r *PGRepository) ListActiveIntegrations(ctx context.Context, orgID string) ([]model.POSIntegration, error) {
	query := `SELECT ` + integrationColumns + ` FROM pos_integrations WHERE is_active = TRUE`
	args := []interface{}{}
	if orgID != "" {
		query += ` AND organization_id = $1`
		args = append(args, orgID)
	}
	query += ` ORDER BY organization_id, created_at`

	var items []model.POSIntegration
	if err := r.DB.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PGRepository) ListLocations(ctx context.Context, integrationID string) ([]model.POSLocation, error) {
	query := `
        SELECT id, integration_id, external_location_id, name, timezone, closeout_hour
        FROM pos_locations
        WHERE integration_id = $1
        ORDER BY name, id`

	var locs []model.POSLocation
	if err := r.DB.SelectContext(ctx, &locs, query, integrationID); err != nil {
		return nil, err
	}
	return locs, nil
}

func (r *PGRepository) LatestApprovedCount(ctx context.Context, orgID string) (*model.InventoryCount, error) {
	var c model.InventoryCount
	query := `
        SELECT id, organization_id, status, approved_at
        FROM inventory_counts
        WHERE organization_id = $1 AND status = $2
        ORDER BY approved_at DESC NULLS LAST
        LIMIT 1`
	err := r.DB.GetContext(ctx, &c, query, orgID, model.CountStatusApproved)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *PGRepository) UpdateSyncStatus(ctx context.Context, integrationID, status string, lastSyncAt *time.Time) error {
	query := `
        UPDATE pos_integrations
        SET sync_status = $1,
            last_sales_sync_at = COALESCE($2, last_sales_sync_at),
            updated_at = NOW()
        WHERE id = $3`
	_, err := r.DB.ExecContext(ctx, query, status, lastSyncAt, integrationID)
	return err
}

func (r *PGRepository) CreateSyncLog(ctx context.Context, l *model.SyncLog) error {
	query := `
        INSERT INTO sync_logs (
            id, organization_id, integration_id, status, window_start, window_end,
            processed, failed, new_sales, duplicates, error_summary, started_at, finished_at
        )
        VALUES (
            :id, :organization_id, :integration_id, :status, :window_start, :window_end,
            :processed, :failed, :new_sales, :duplicates, :error_summary, :started_at, :finished_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, l)
	return err
}
