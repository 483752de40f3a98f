package services

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadhub-backend/shared/apperr"
	"leadhub-backend/shared/database/models"
	"leadhub-backend/shared/features"
)

// expectFeatureEnabled satisfies the entitlement gate: rows already exist
// and the key is enabled.
func expectFeatureEnabled(mock sqlmock.Sqlmock, tenantID uuid.UUID, key string) {
	mock.ExpectQuery(`SELECT count\(\*\) FROM "tenant_features"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(len(features.Keys))))
	mock.ExpectQuery(`SELECT \* FROM "tenant_features"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "feature_key", "enabled"}).
			AddRow(uuid.New().String(), tenantID.String(), key, true))
}

// Resolving a request that already left PENDING must fail with the
// already-resolved conflict and roll the transaction back.
func TestResolveAlreadyResolvedRequest(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewReassignmentService(db)

	tenantID := uuid.New()
	requestID := uuid.New()
	ctx := supervisorContext(tenantID)

	expectFeatureEnabled(mock, tenantID, features.KeyAssignments)

	mock.ExpectBegin()
	// The row is locked, but a previous resolver already won.
	mock.ExpectQuery(`SELECT \* FROM "lead_reassignment_requests" .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "lead_id", "tenant_id", "requested_by_id", "reason", "status"}).
			AddRow(requestID.String(), uuid.New().String(), tenantID.String(), uuid.New().String(),
				"owner left the team", models.ReassignmentStatusApproved))
	mock.ExpectRollback()

	_, appErr := svc.Resolve(ctx, requestID, true, nil, nil)

	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, apperr.CodeAlreadyResolved, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveMissingRequest(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewReassignmentService(db)

	tenantID := uuid.New()
	ctx := supervisorContext(tenantID)

	expectFeatureEnabled(mock, tenantID, features.KeyAssignments)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "lead_reassignment_requests" .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, appErr := svc.Resolve(ctx, uuid.New(), false, nil, nil)

	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
