package features

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestEnsureTenantFeatureRows(t *testing.T) {
	t.Run("existing rows short-circuit", func(t *testing.T) {
		db, mock := newMockDB(t)
		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "tenant_features"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(len(Keys))))

		require.NoError(t, EnsureTenantFeatureRows(db, tenantID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent backfill conflicts are absorbed", func(t *testing.T) {
		db, mock := newMockDB(t)
		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "tenant_features"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`SELECT "id","plan_id" FROM "tenants"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "plan_id"}).
				AddRow(tenantID.String(), nil))
		// Another backfill committed first: every row conflicts and the
		// ON CONFLICT DO NOTHING insert returns nothing. Still not an error.
		mock.ExpectQuery(`INSERT INTO "tenant_features" .* ON CONFLICT .* DO NOTHING`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		require.NoError(t, EnsureTenantFeatureRows(db, tenantID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
