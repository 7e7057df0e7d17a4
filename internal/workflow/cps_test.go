package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cps-portal-api/internal/models"
	appErrors "github.com/noah-isme/cps-portal-api/pkg/errors"
)

var (
	facultyActor   = Actor{ID: "fac-1", Name: "Dr. Rao", Role: models.RoleFaculty, Department: "CSE"}
	hodActor       = Actor{ID: "hod-1", Name: "Dr. Iyer", Role: models.RoleHOD, Department: "CSE"}
	principalActor = Actor{ID: "pri-1", Name: "Dr. Menon", Role: models.RolePrincipal}
)

func draftCPSEntry(owner Actor) *models.CPSEntry {
	return &models.CPSEntry{
		ID:         "cps-1",
		OwnerID:    owner.ID,
		OwnerName:  owner.Name,
		OwnerRole:  owner.Role,
		Department: owner.Department,
		Category:   models.CategoryResearch,
		Activity:   "Journal Publication",
		Credits:    15,
		Status:     models.CPSStatusDraft,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestFacultyEntryApprovedDirectlyByHOD(t *testing.T) {
	// Scenario: faculty submits, HOD approves, entry is final with no
	// principal stage involved.
	entry := draftCPSEntry(facultyActor)
	now := time.Now()

	require.NoError(t, SubmitCPS(entry, facultyActor, now))
	assert.Equal(t, models.CPSStatusPendingHOD, entry.Status)
	require.NotNil(t, entry.SubmittedAt)

	require.NoError(t, ApproveCPS(entry, hodActor, "well documented", now))
	assert.Equal(t, models.CPSStatusApproved, entry.Status)
	assert.NotNil(t, entry.HODApprovedAt)
	assert.Nil(t, entry.PrincipalApprovedAt)
	assert.Equal(t, 15, entry.Credits)
}

func TestHODOwnEntryRequiresPrincipalSignOff(t *testing.T) {
	// Scenario: an HOD's own submission forwards to the principal on HOD
	// approval and needs a second sign-off.
	entry := draftCPSEntry(hodActor)
	now := time.Now()

	require.NoError(t, SubmitCPS(entry, hodActor, now))
	require.NoError(t, ApproveCPS(entry, hodActor, "", now))
	assert.Equal(t, models.CPSStatusPendingPrincipal, entry.Status)
	assert.NotNil(t, entry.HODApprovedAt)
	assert.Nil(t, entry.PrincipalApprovedAt)

	require.NoError(t, ApproveCPS(entry, principalActor, "approved", now))
	assert.Equal(t, models.CPSStatusApproved, entry.Status)
	assert.NotNil(t, entry.PrincipalApprovedAt)
}

func TestSubmitRequiresOwner(t *testing.T) {
	entry := draftCPSEntry(facultyActor)
	err := SubmitCPS(entry, hodActor, time.Now())
	assert.ErrorIs(t, err, appErrors.ErrNotOwner)
	assert.Equal(t, models.CPSStatusDraft, entry.Status)
}

func TestApproveRequiresMatchingRoleAndDepartment(t *testing.T) {
	entry := draftCPSEntry(facultyActor)
	now := time.Now()
	require.NoError(t, SubmitCPS(entry, facultyActor, now))

	err := ApproveCPS(entry, facultyActor, "", now)
	assert.ErrorIs(t, err, appErrors.ErrWrongRole)

	otherDeptHOD := Actor{ID: "hod-2", Role: models.RoleHOD, Department: "ECE"}
	err = ApproveCPS(entry, otherDeptHOD, "", now)
	assert.ErrorIs(t, err, appErrors.ErrDepartmentMismatch)
	assert.Equal(t, models.CPSStatusPendingHOD, entry.Status)
}

func TestHODApprovalMatchesDepartmentLabel(t *testing.T) {
	// The entry stores the full label while the HOD account carries the
	// short code; reconciliation must still authorize the approval.
	entry := draftCPSEntry(facultyActor)
	entry.Department = "Computer Science & Engineering"
	now := time.Now()
	require.NoError(t, SubmitCPS(entry, facultyActor, now))

	require.NoError(t, ApproveCPS(entry, hodActor, "", now))
	assert.Equal(t, models.CPSStatusApproved, entry.Status)
}

func TestRejectIsTerminal(t *testing.T) {
	entry := draftCPSEntry(facultyActor)
	now := time.Now()
	require.NoError(t, SubmitCPS(entry, facultyActor, now))
	require.NoError(t, RejectCPS(entry, hodActor, "insufficient evidence", now))

	assert.Equal(t, models.CPSStatusRejected, entry.Status)
	assert.Equal(t, models.RoleHOD, entry.RejectedBy)
	assert.Equal(t, "insufficient evidence", entry.RejectionRemarks)

	// No transition is defined out of a terminal status.
	assert.ErrorIs(t, ApproveCPS(entry, hodActor, "", now), appErrors.ErrTerminal)
	assert.ErrorIs(t, SubmitCPS(entry, facultyActor, now), appErrors.ErrTerminal)
	assert.ErrorIs(t, RejectCPS(entry, hodActor, "", now), appErrors.ErrTerminal)
}

func TestApproveDraftIsInvalid(t *testing.T) {
	entry := draftCPSEntry(facultyActor)
	err := ApproveCPS(entry, hodActor, "", time.Now())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErr.Code)
}

func TestCreditsUnchangedThroughApproval(t *testing.T) {
	entry := draftCPSEntry(facultyActor)
	created := entry.Credits
	now := time.Now()

	require.NoError(t, SubmitCPS(entry, facultyActor, now))
	require.NoError(t, ApproveCPS(entry, hodActor, "", now))
	assert.Equal(t, created, entry.Credits)
}
