package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return sqlx.NewDb(db, "pgx"), mock
}

func TestGetByOrganization_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPGRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM inventory_settings`)).
		WithArgs("org-1").
		WillReturnRows(sqlmock.NewRows([]string{"organization_id"}))

	s, err := repo.GetByOrganization(context.Background(), "org-1")
	assert.NoError(t, err)
	assert.Nil(t, s)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByOrganization_DecodesPolicies(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPGRepository(db)

	rows := sqlmock.NewRows([]string{
		"organization_id", "webhook_policy", "cron_sync_policy", "manual_policy",
		"log_over_depletions", "log_unit_conversions", "audit_retention_days", "updated_at",
	}).AddRow(
		"org-1",
		[]byte(`{"allowOverDepletion":true,"warningThresholds":{"low":25,"critical":5}}`),
		[]byte(`{"allowOverDepletion":true,"warningThresholds":{"low":20,"critical":10}}`),
		[]byte(`{"allowOverDepletion":false,"warningThresholds":{"low":20,"critical":10}}`),
		false, true, 30, time.Now(),
	)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM inventory_settings`)).
		WithArgs("org-1").
		WillReturnRows(rows)

	s, err := repo.GetByOrganization(context.Background(), "org-1")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.True(t, s.WebhookPolicy.AllowOverDepletion)
	assert.Equal(t, 25.0, s.WebhookPolicy.WarningThresholds.LowPercent)
	assert.True(t, s.CronSyncPolicy.AllowOverDepletion)
	assert.False(t, s.ManualPolicy.AllowOverDepletion)
	assert.False(t, s.LogOverDepletions)
	assert.Equal(t, 30, s.AuditRetentionDays)
}
