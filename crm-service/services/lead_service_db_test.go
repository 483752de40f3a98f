package services

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"leadhub-backend/shared/apperr"
	"leadhub-backend/shared/database/models"
	"leadhub-backend/shared/guard"
	utils "leadhub-backend/shared/utils/auth"
	"leadhub-backend/shared/utils/rbac"
)

// newMockDB opens GORM over a sqlmock connection with the same error
// translation the real connection uses.
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

func supervisorContext(tenantID uuid.UUID) *guard.TenantContext {
	userID := uuid.New()
	return &guard.TenantContext{
		Claims: &utils.Claims{UserID: userID.String()},
		UserID: userID,
		Tenant: models.Tenant{ID: tenantID, IsActive: true},
		Membership: &models.Membership{
			UserID:   userID,
			TenantID: tenantID,
			Role:     rbac.RoleSupervisor,
			IsActive: true,
		},
	}
}

// A create that passes the friendly pre-check but loses the race at the
// unique index must surface the same duplicate-RUC conflict.
func TestCreateLeadDuplicateRucRace(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewLeadService(db)
	ctx := supervisorContext(uuid.New())

	// Pre-check sees no duplicate.
	mock.ExpectQuery(`SELECT count\(\*\) FROM "leads"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	// The insert hits the partial unique index: a concurrent writer won.
	mock.ExpectQuery(`INSERT INTO "leads"`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	ruc := "20-123456-7"
	_, appErr := svc.Create(ctx, CreateLeadInput{
		BusinessName: "Acme SA",
		Ruc:          &ruc,
	})

	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, apperr.CodeDuplicateRuc, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateLeadPreCheckRejectsDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewLeadService(db)
	ctx := supervisorContext(uuid.New())

	mock.ExpectQuery(`SELECT count\(\*\) FROM "leads"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ruc := "20-123456-7"
	_, appErr := svc.Create(ctx, CreateLeadInput{
		BusinessName: "Acme SA",
		Ruc:          &ruc,
	})

	require.NotNil(t, appErr)
	// Same error kind whichever side catches it.
	assert.Equal(t, apperr.CodeDuplicateRuc, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
