package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return NewPGRepository(sqlx.NewDb(raw, "pgx")), mock
}

func TestLatestApprovedCount(t *testing.T) {
	repo, mock := newRepo(t)
	approved := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM inventory_counts`)).
		WithArgs("org-1", model.CountStatusApproved).
		WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "status", "approved_at"}).
			AddRow("count-1", "org-1", "approved", approved))

	c, err := repo.LatestApprovedCount(context.Background(), "org-1")
	require.NoError(t, err)
	require.NotNil(t, c.ApprovedAt)
	assert.True(t, c.ApprovedAt.Equal(approved))
}

func TestLatestApprovedCount_None(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM inventory_counts`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "status", "approved_at"}))

	c, err := repo.LatestApprovedCount(context.Background(), "org-1")
	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestListActiveIntegrations_AllOrganizations(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`FROM pos_integrations WHERE is_active = TRUE ORDER BY`).
		WithoutArgs().
		WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "provider", "access_token", "is_active", "last_sales_sync_at", "sync_status", "created_at", "updated_at"}).
			AddRow("int-1", "org-1", "square", "tok", true, nil, "success", time.Now(), time.Now()))

	items, err := repo.ListActiveIntegrations(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].LastSalesSyncAt)
}

func TestUpdateSyncStatus_KeepsWatermarkWhenNil(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE pos_integrations`)).
		WithArgs(model.SyncStatusFailed, nil, "int-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateSyncStatus(context.Background(), "int-1", model.SyncStatusFailed, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
