package repository

import (
	"context"
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

func (r *PGRepository) Create(ctx context.Context, l *model.AuditLog) error {
	query := `
        INSERT INTO audit_logs (
            id, organization_id, event_type, product_id, recipe_id, user_id,
            event_data, source, external_order_id, created_at
        )
        VALUES (
            :id, :organization_id, :event_type, :product_id, :recipe_id, :user_id,
            :event_data, :source, :external_order_id, :created_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, l)
	return err
}

func (r *PGRepository) PurgeExpired(ctx context.Context, now time.Time, defaultDays int) (int64, error) {
	query := `
        DELETE FROM audit_logs a
        WHERE a.created_at < $1 - make_interval(days => COALESCE(
            (SELECT s.audit_retention_days FROM inventory_settings s WHERE s.organization_id = a.organization_id),
            $2
        ))
    `
	res, err := r.DB.ExecContext(ctx, query, now, defaultDays)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
