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

func newTimetableService(t *testing.T) *TimetableService {
	t.Helper()
	repo, err := repository.NewTimetableRepository(context.Background(), kvstore.NewMemory(), zap.NewNop(), nil)
	require.NoError(t, err)
	return NewTimetableService(repo, nil, zap.NewNop(), 2)
}

func headerRequest() DraftHeaderRequest {
	return DraftHeaderRequest{
		Department:   "Computer Science & Engineering",
		Semester:     "5",
		Section:      "A",
		AcademicYear: "2026-27",
		Room:         "CS-201",
		Version:      "1.0",
	}
}

func cellRequest(day, slot string) CellRequest {
	return CellRequest{
		Day:         day,
		TimeSlotID:  slot,
		SubjectCode: "CS501",
		SubjectName: "Operating Systems",
		FacultyID:   "fac-1",
		FacultyName: "Dr. Rao",
	}
}

func TestSaveDraftHeaderCreatesDraftWithDefaultSlots(t *testing.T) {
	svc := newTimetableService(t)
	ctx := context.Background()

	draft, err := svc.SaveDraftHeader(ctx, facultyActor, headerRequest())
	require.NoError(t, err)
	require.NotEmpty(t, draft.ID)
	assert.Equal(t, models.TimetableStatusDraft, draft.Status)
	assert.Len(t, draft.TimeSlots, len(models.DefaultTimeSlots()))

	// Updating the header keeps the cells.
	_, err = svc.UpsertCell(ctx, cellRequest("Monday", "p1"))
	require.NoError(t, err)
	req := headerRequest()
	req.Section = "B"
	updated, err := svc.SaveDraftHeader(ctx, facultyActor, req)
	require.NoError(t, err)
	assert.Equal(t, "B", updated.Section)
	assert.Len(t, updated.Cells, 1)
}

func TestUpsertCellWithoutDraft(t *testing.T) {
	svc := newTimetableService(t)

	_, err := svc.UpsertCell(context.Background(), cellRequest("Monday", "p1"))
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestSubmitPromotesDraft(t *testing.T) {
	svc := newTimetableService(t)
	ctx := context.Background()

	_, err := svc.SaveDraftHeader(ctx, facultyActor, headerRequest())
	require.NoError(t, err)
	_, err = svc.UpsertCell(ctx, cellRequest("Monday", "p1"))
	require.NoError(t, err)

	submitted, err := svc.Submit(ctx, facultyActor)
	require.NoError(t, err)
	assert.Equal(t, models.TimetableStatusPendingFaculty, submitted.Status)

	// The draft slot is free again and the submission is listed.
	_, err = svc.Draft(ctx)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	listed, err := svc.List(ctx, principalActor, models.TimetableStatusPendingFaculty)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, submitted.ID, listed[0].ID)
}

func TestSubmitEmptyDraftRejected(t *testing.T) {
	svc := newTimetableService(t)
	ctx := context.Background()

	_, err := svc.SaveDraftHeader(ctx, facultyActor, headerRequest())
	require.NoError(t, err)

	_, err = svc.Submit(ctx, facultyActor)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	// The draft is still there to be completed.
	_, err = svc.Draft(ctx)
	require.NoError(t, err)
}

func TestPeerReviewThenHODApproval(t *testing.T) {
	svc := newTimetableService(t)
	ctx := context.Background()

	_, err := svc.SaveDraftHeader(ctx, facultyActor, headerRequest())
	require.NoError(t, err)
	_, err = svc.UpsertCell(ctx, cellRequest("Monday", "p1"))
	require.NoError(t, err)
	submitted, err := svc.Submit(ctx, facultyActor)
	require.NoError(t, err)

	tt, err := svc.ApproveByFaculty(ctx, faculty2Actor, submitted.ID, "fine by me")
	require.NoError(t, err)
	assert.Equal(t, models.TimetableStatusPendingFaculty, tt.Status)

	third := workflow.Actor{ID: "fac-3", Name: "Dr. Nair", Role: models.RoleFaculty, Department: "CSE"}
	tt, err = svc.ApproveByFaculty(ctx, third, submitted.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.TimetableStatusPendingHOD, tt.Status)

	// HOD account carries the short code, the timetable the full label.
	final, err := svc.ApproveByHOD(ctx, hodActor, submitted.ID, "publish")
	require.NoError(t, err)
	assert.Equal(t, models.TimetableStatusApproved, final.Status)

	got, err := svc.Get(ctx, submitted.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TimetableStatusApproved, got.Status)
}

func TestPrincipalCannotPeerReview(t *testing.T) {
	svc := newTimetableService(t)
	ctx := context.Background()

	_, err := svc.SaveDraftHeader(ctx, facultyActor, headerRequest())
	require.NoError(t, err)
	_, err = svc.UpsertCell(ctx, cellRequest("Monday", "p1"))
	require.NoError(t, err)
	submitted, err := svc.Submit(ctx, facultyActor)
	require.NoError(t, err)

	_, err = svc.ApproveByFaculty(ctx, principalActor, submitted.ID, "")
	assert.ErrorIs(t, err, appErrors.ErrWrongRole)
}

func TestHODListScopedToDepartment(t *testing.T) {
	seed := []models.TimetableData{
		{ID: "tt-cse", Department: "CSE", Status: models.TimetableStatusPendingHOD},
		{ID: "tt-ece", Department: "ECE", Status: models.TimetableStatusPendingHOD},
	}
	repo, err := repository.NewTimetableRepository(context.Background(), kvstore.NewMemory(), zap.NewNop(), seed)
	require.NoError(t, err)
	svc := NewTimetableService(repo, nil, zap.NewNop(), 2)

	listed, err := svc.List(context.Background(), hodActor, models.TimetableStatusPendingHOD)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "tt-cse", listed[0].ID)
}
