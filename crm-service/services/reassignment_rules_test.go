package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"leadhub-backend/shared/database/models"
)

func TestTargetOwner(t *testing.T) {
	explicit := uuid.New()
	suggested := uuid.New()

	t.Run("explicit owner wins over suggestion", func(t *testing.T) {
		got := TargetOwner(&explicit, &suggested)
		assert.Equal(t, &explicit, got)
	})

	t.Run("falls back to suggestion", func(t *testing.T) {
		got := TargetOwner(nil, &suggested)
		assert.Equal(t, &suggested, got)
	})

	t.Run("no owner at all means keep current owner", func(t *testing.T) {
		assert.Nil(t, TargetOwner(nil, nil))
	})
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(models.ReassignmentStatusPending))
	assert.False(t, CanTransition(models.ReassignmentStatusApproved))
	assert.False(t, CanTransition(models.ReassignmentStatusRejected))
	assert.False(t, CanTransition(""))
	assert.False(t, CanTransition("pending"))
}

func TestResolutionStatus(t *testing.T) {
	assert.Equal(t, models.ReassignmentStatusApproved, ResolutionStatus(true))
	assert.Equal(t, models.ReassignmentStatusRejected, ResolutionStatus(false))
}
