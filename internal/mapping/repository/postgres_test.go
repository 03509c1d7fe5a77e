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

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return sqlx.NewDb(db, "pgx"), mock
}

func TestFindPOSProduct(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPGRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "organization_id", "integration_id", "external_product_id", "name",
		"serving_unit", "serving_size", "is_placeholder", "created_at", "updated_at",
	}).AddRow("pp-1", "org-1", "int-1", "ext-1", "IPA pint", "oz", 16.0, false, now, now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM pos_products`)).
		WithArgs("org-1", "int-1", "ext-1").
		WillReturnRows(rows)

	p, err := repo.FindPOSProduct(context.Background(), "org-1", "int-1", "ext-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "pp-1", p.ID)
	require.NotNil(t, p.ServingUnit)
	assert.Equal(t, "oz", *p.ServingUnit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindPOSProduct_Missing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPGRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM pos_products`)).
		WithArgs("org-1", "int-1", "nope").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	p, err := repo.FindPOSProduct(context.Background(), "org-1", "int-1", "nope")
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestCreatePOSProduct_IgnoresConflict(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPGRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (organization_id, integration_id, external_product_id) DO NOTHING`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.CreatePOSProduct(context.Background(), &model.POSProduct{
		BaseModel:         model.BaseModel{ID: "pp-2"},
		OrganizationID:    "org-1",
		IntegrationID:     "int-1",
		ExternalProductID: "ext-2",
		IsPlaceholder:     true,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindActiveRecipeMapping(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPGRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM recipe_pos_mappings`)).
		WithArgs("pp-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "pos_product_id", "recipe_id", "is_confirmed", "is_active"}).
			AddRow("rm-1", "pp-1", "rec-1", true, true))

	m, err := repo.FindActiveRecipeMapping(context.Background(), "pp-1")
	require.NoError(t, err)
	assert.Equal(t, "rec-1", m.RecipeID)
}
