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

func (r *PGRepository) GetByOrganization(ctx context.Context, orgID string) (*model.InventorySettings, error) {
	var s model.InventorySettings
	query := `
        SELECT organization_id, webhook_policy, cron_sync_policy, manual_policy,
               log_over_depletions, log_unit_conversions, audit_retention_days, updated_at
        FROM inventory_settings
        WHERE organization_id = $1`
	err := r.DB.GetContext(ctx, &s, query, orgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) Upsert(ctx context.Context, s *model.InventorySettings) error {
	query := `
        INSERT INTO inventory_settings (
            organization_id, webhook_policy, cron_sync_policy, manual_policy,
            log_over_depletions, log_unit_conversions, audit_retention_days, updated_at
        )
        VALUES (
            :organization_id, :webhook_policy, :cron_sync_policy, :manual_policy,
            :log_over_depletions, :log_unit_conversions, :audit_retention_days, :updated_at
        )
        ON CONFLICT (organization_id)
        DO UPDATE SET
            webhook_policy = EXCLUDED.webhook_policy,
            cron_sync_policy = EXCLUDED.cron_sync_policy,
            manual_policy = EXCLUDED.manual_policy,
            log_over_depletions = EXCLUDED.log_over_depletions,
            log_unit_conversions = EXCLUDED.log_unit_conversions,
            audit_retention_days = EXCLUDED.audit_retention_days,
            updated_at = EXCLUDED.updated_at
    `
	_, err := r.DB.NamedExecContext(ctx, query, s)
	return err
}
