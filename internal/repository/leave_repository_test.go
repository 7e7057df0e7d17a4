package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/cps-portal-api/internal/models"
	appErrors "github.com/noah-isme/cps-portal-api/pkg/errors"
	"github.com/noah-isme/cps-portal-api/pkg/kvstore"
)

func seedLeaves() []models.LeaveEntry {
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	return []models.LeaveEntry{
		{
			ID:         "lv-1",
			OwnerID:    "fac-1",
			OwnerName:  "Dr. Rao",
			OwnerRole:  models.RoleFaculty,
			Department: "CSE",
			LeaveType:  models.LeaveCasual,
			StartDate:  base.AddDate(0, 0, 7),
			EndDate:    base.AddDate(0, 0, 8),
			Reason:     "Family function",
			Status:     models.LeaveStatusPendingHOD,
			CreatedAt:  base,
		},
		{
			ID:         "lv-2",
			OwnerID:    "hod-1",
			OwnerName:  "Dr. Iyer",
			OwnerRole:  models.RoleHOD,
			Department: "CSE",
			LeaveType:  models.LeaveMedical,
			StartDate:  base.AddDate(0, 0, 3),
			EndDate:    base.AddDate(0, 0, 5),
			Reason:     "Medical checkup",
			Status:     models.LeaveStatusPendingPrincipal,
			CreatedAt:  base.Add(time.Hour),
		},
	}
}

func TestLeaveRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()

	repo, err := NewLeaveRepository(ctx, store, zap.NewNop(), seedLeaves())
	require.NoError(t, err)

	entry := &models.LeaveEntry{
		OwnerID:    "fac-2",
		OwnerName:  "Dr. Nair",
		OwnerRole:  models.RoleFaculty,
		Department: "ECE",
		LeaveType:  models.LeaveEarned,
		StartDate:  time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC),
		Reason:     "Conference travel",
		Status:     models.LeaveStatusPendingHOD,
	}
	require.NoError(t, repo.Create(ctx, entry))
	require.NotEmpty(t, entry.ID)
	assert.False(t, entry.SubmittedAt.IsZero())

	// A second repository over the same store must see the identical
	// collection, ignoring the seed.
	reloaded, err := NewLeaveRepository(ctx, store, zap.NewNop(), nil)
	require.NoError(t, err)

	got, err := reloaded.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, *entry, *got)

	all, err := reloaded.List(ctx, models.LeaveFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLeaveRepositoryListFilters(t *testing.T) {
	ctx := context.Background()
	repo, err := NewLeaveRepository(ctx, kvstore.NewMemory(), zap.NewNop(), seedLeaves())
	require.NoError(t, err)

	own, err := repo.List(ctx, models.LeaveFilter{OwnerID: "fac-1"})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "lv-1", own[0].ID)

	pending, err := repo.List(ctx, models.LeaveFilter{
		Department: "Computer Science & Engineering",
		Status:     []models.LeaveStatus{models.LeaveStatusPendingPrincipal},
	})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "lv-2", pending[0].ID)
}

func TestLeaveRepositoryRemoveIdempotent(t *testing.T) {
	ctx := context.Background()
	repo, err := NewLeaveRepository(ctx, kvstore.NewMemory(), zap.NewNop(), seedLeaves())
	require.NoError(t, err)

	require.NoError(t, repo.Remove(ctx, "lv-1"))
	require.NoError(t, repo.Remove(ctx, "lv-1"))

	_, err = repo.Get(ctx, "lv-1")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
