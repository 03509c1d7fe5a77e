package repository

import (
	"context"
	"errors"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "organization_id", "product_id", "location_id", "current_quantity", "minimum_quantity", "created_at", "updated_at"}

func newRepo(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return NewPGRepository(sqlx.NewDb(raw, "pgx")), mock
}

func TestDepleteProduct_WritesPlannedQuantities(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
		WithArgs("org-1", "prod-1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("inv-a", "org-1", "prod-1", "bar", 2.0, nil, now, now).
			AddRow("inv-b", "org-1", "prod-1", "cellar", 3.0, 1.0, now, now))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE inventory_items SET current_quantity`)).
		WithArgs(0.0, "inv-a").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE inventory_items SET current_quantity`)).
		WithArgs(1.0, "inv-b").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var seen []model.InventoryItem
	err := repo.DepleteProduct(context.Background(), "org-1", "prod-1", func(items []model.InventoryItem) (map[string]float64, error) {
		seen = items
		return map[string]float64{"inv-a": 0, "inv-b": 1}, nil
	})
	require.NoError(t, err)
	require.Len(t, seen, 2)
	assert.Equal(t, "inv-a", seen[0].ID)
	assert.Equal(t, 1.0, *seen[1].MinimumQuantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepleteProduct_WritesFractionalPourUnrounded(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()
	// 4 bottles less one 1.5 fl oz pour from a 750 ml bottle.
	remaining := 4 - 44.3603/750.0

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
		WithArgs("org-1", "gin").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("inv-a", "org-1", "gin", "bar", 4.0, nil, now, now))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE inventory_items SET current_quantity`)).
		WithArgs(remaining, "inv-a").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DepleteProduct(context.Background(), "org-1", "gin", func(items []model.InventoryItem) (map[string]float64, error) {
		return map[string]float64{"inv-a": remaining}, nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchema_QuantityColumnsKeepEightDecimals(t *testing.T) {
	raw, err := os.ReadFile("../../../migrations/0001_init.sql")
	require.NoError(t, err)

	quantity := regexp.MustCompile(`(?m)^\s*(current_quantity|minimum_quantity|container_size|serving_size|quantity)\s+(NUMERIC\(\d+, \d+\))`)
	matches := quantity.FindAllStringSubmatch(string(raw), -1)
	require.NotEmpty(t, matches)
	for _, m := range matches {
		assert.Equal(t, "NUMERIC(18, 8)", m[2], m[1])
	}
}

func TestDepleteProduct_SkipsUnchangedRows(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("inv-a", "org-1", "prod-1", "bar", 5.0, nil, now, now).
			AddRow("inv-b", "org-1", "prod-1", "cellar", 3.0, nil, now, now))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE inventory_items`)).
		WithArgs(4.0, "inv-a").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DepleteProduct(context.Background(), "org-1", "prod-1", func(items []model.InventoryItem) (map[string]float64, error) {
		return map[string]float64{"inv-a": 4, "inv-b": 3}, nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepleteProduct_PlanErrorRollsBack(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()
	planErr := errors.New("insufficient")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow("inv-a", "org-1", "prod-1", "bar", 1.0, nil, now, now))
	mock.ExpectRollback()

	err := repo.DepleteProduct(context.Background(), "org-1", "prod-1", func([]model.InventoryItem) (map[string]float64, error) {
		return nil, planErr
	})
	assert.ErrorIs(t, err, planErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepleteProduct_NoRows(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
		WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectRollback()

	err := repo.DepleteProduct(context.Background(), "org-1", "prod-1", func([]model.InventoryItem) (map[string]float64, error) {
		t.Fatal("plan must not run without rows")
		return nil, nil
	})
	assert.ErrorIs(t, err, inventory.ErrNoInventory)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByProductLocation_Missing(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM inventory_items`)).
		WithArgs("org-1", "prod-1", "bar").
		WillReturnRows(sqlmock.NewRows(columns))

	item, err := repo.GetByProductLocation(context.Background(), "org-1", "prod-1", "bar")
	assert.NoError(t, err)
	assert.Nil(t, item)
}
