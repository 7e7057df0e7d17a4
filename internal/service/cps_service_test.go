package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/cps-portal-api/internal/models"
	"github.com/noah-isme/cps-portal-api/internal/repository"
	"github.com/noah-isme/cps-portal-api/internal/workflow"
	appErrors "github.com/noah-isme/cps-portal-api/pkg/errors"
	"github.com/noah-isme/cps-portal-api/pkg/kvstore"
)

var (
	facultyActor   = workflow.Actor{ID: "fac-1", Name: "Dr. Rao", Role: models.RoleFaculty, Department: "CSE"}
	faculty2Actor  = workflow.Actor{ID: "fac-2", Name: "Dr. Das", Role: models.RoleFaculty, Department: "CSE"}
	hodActor       = workflow.Actor{ID: "hod-1", Name: "Dr. Iyer", Role: models.RoleHOD, Department: "CSE"}
	principalActor = workflow.Actor{ID: "pri-1", Name: "Dr. Menon", Role: models.RolePrincipal}
)

func newCPSService(t *testing.T) *CPSService {
	t.Helper()
	repo, err := repository.NewCPSRepository(context.Background(), kvstore.NewMemory(), zap.NewNop(), nil)
	require.NoError(t, err)
	return NewCPSService(repo, nil, zap.NewNop())
}

func TestCreateCopiesCreditsFromCatalog(t *testing.T) {
	svc := newCPSService(t)

	entry, err := svc.Create(context.Background(), facultyActor, CreateCPSRequest{Activity: "journal publication"})
	require.NoError(t, err)
	assert.Equal(t, "Journal Publication", entry.Activity)
	assert.Equal(t, models.CategoryResearch, entry.Category)
	assert.Equal(t, 15, entry.Credits)
	assert.Equal(t, models.CPSStatusDraft, entry.Status)
	assert.Equal(t, "fac-1", entry.OwnerID)
}

func TestCreateRejectsUnknownActivity(t *testing.T) {
	svc := newCPSService(t)

	_, err := svc.Create(context.Background(), facultyActor, CreateCPSRequest{Activity: "Invented Thing"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUpdateActivityRecopiesCredits(t *testing.T) {
	svc := newCPSService(t)
	ctx := context.Background()

	entry, err := svc.Create(ctx, facultyActor, CreateCPSRequest{Activity: "Workshop Attended"})
	require.NoError(t, err)
	require.Equal(t, 5, entry.Credits)

	activity := "Patent Filed"
	updated, err := svc.Update(ctx, facultyActor, entry.ID, UpdateCPSRequest{Activity: &activity})
	require.NoError(t, err)
	assert.Equal(t, 20, updated.Credits)
	assert.Equal(t, models.CategoryResearch, updated.Category)
}

func TestUpdateLockedAfterSubmit(t *testing.T) {
	svc := newCPSService(t)
	ctx := context.Background()

	entry, err := svc.Create(ctx, facultyActor, CreateCPSRequest{Activity: "Conference Paper"})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, facultyActor, entry.ID)
	require.NoError(t, err)

	evidence := "late addition"
	_, err = svc.Update(ctx, facultyActor, entry.ID, UpdateCPSRequest{Evidence: &evidence})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)

	err = svc.Delete(ctx, facultyActor, entry.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
}

func TestApprovalChainPersists(t *testing.T) {
	svc := newCPSService(t)
	ctx := context.Background()

	entry, err := svc.Create(ctx, facultyActor, CreateCPSRequest{Activity: "Journal Publication"})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, facultyActor, entry.ID)
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, hodActor, entry.ID, "verified")
	require.NoError(t, err)
	assert.Equal(t, models.CPSStatusApproved, approved.Status)

	// The transition must survive a re-read.
	got, err := svc.Get(ctx, facultyActor, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CPSStatusApproved, got.Status)
	assert.NotNil(t, got.HODApprovedAt)
}

func TestListScopesByRole(t *testing.T) {
	svc := newCPSService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, facultyActor, CreateCPSRequest{Activity: "Journal Publication"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, faculty2Actor, CreateCPSRequest{Activity: "Conference Paper"})
	require.NoError(t, err)

	mine, err := svc.List(ctx, facultyActor, ListCPSRequest{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "fac-1", mine[0].OwnerID)

	dept, err := svc.List(ctx, hodActor, ListCPSRequest{})
	require.NoError(t, err)
	assert.Len(t, dept, 2)

	all, err := svc.List(ctx, principalActor, ListCPSRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestQueueByStage(t *testing.T) {
	svc := newCPSService(t)
	ctx := context.Background()

	entry, err := svc.Create(ctx, facultyActor, CreateCPSRequest{Activity: "Journal Publication"})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, facultyActor, entry.ID)
	require.NoError(t, err)

	hodEntry, err := svc.Create(ctx, hodActor, CreateCPSRequest{Activity: "Conference Paper"})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, hodActor, hodEntry.ID)
	require.NoError(t, err)
	_, err = svc.Approve(ctx, hodActor, hodEntry.ID, "")
	require.NoError(t, err)

	hodQueue, err := svc.Queue(ctx, hodActor)
	require.NoError(t, err)
	require.Len(t, hodQueue, 1)
	assert.Equal(t, entry.ID, hodQueue[0].ID)

	principalQueue, err := svc.Queue(ctx, principalActor)
	require.NoError(t, err)
	require.Len(t, principalQueue, 1)
	assert.Equal(t, hodEntry.ID, principalQueue[0].ID)

	_, err = svc.Queue(ctx, facultyActor)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestGetEnforcesVisibility(t *testing.T) {
	svc := newCPSService(t)
	ctx := context.Background()

	entry, err := svc.Create(ctx, facultyActor, CreateCPSRequest{Activity: "Journal Publication"})
	require.NoError(t, err)

	otherDeptHOD := workflow.Actor{ID: "hod-2", Role: models.RoleHOD, Department: "ECE"}
	_, err = svc.Get(ctx, otherDeptHOD, entry.ID)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.Get(ctx, hodActor, entry.ID)
	require.NoError(t, err)
	_, err = svc.Get(ctx, principalActor, entry.ID)
	require.NoError(t, err)
}
