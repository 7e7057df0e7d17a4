package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cps-portal-api/internal/models"
	appErrors "github.com/noah-isme/cps-portal-api/pkg/errors"
)

func pendingLeave(owner Actor) *models.LeaveEntry {
	now := time.Now().UTC()
	return &models.LeaveEntry{
		ID:          "leave-1",
		OwnerID:     owner.ID,
		OwnerName:   owner.Name,
		OwnerRole:   owner.Role,
		Department:  owner.Department,
		LeaveType:   models.LeaveCasual,
		StartDate:   now.AddDate(0, 0, 7),
		EndDate:     now.AddDate(0, 0, 9),
		Reason:      "family function",
		Status:      InitialLeaveStatus(owner.Role),
		CreatedAt:   now,
		SubmittedAt: now,
	}
}

func TestHODLeaveStartsAtPrincipal(t *testing.T) {
	assert.Equal(t, models.LeaveStatusPendingPrincipal, InitialLeaveStatus(models.RoleHOD))
	assert.Equal(t, models.LeaveStatusPendingHOD, InitialLeaveStatus(models.RoleFaculty))
}

func TestFacultyLeaveAlwaysForwardsToPrincipal(t *testing.T) {
	// HOD approval never terminally approves faculty leave; the request
	// forwards to the principal, unlike the CPS chain.
	entry := pendingLeave(facultyActor)
	now := time.Now()

	require.NoError(t, ApproveLeave(entry, hodActor, "recommended", now))
	assert.Equal(t, models.LeaveStatusPendingPrincipal, entry.Status)
	assert.NotNil(t, entry.HODApprovedAt)
	assert.Nil(t, entry.ApprovedAt)

	require.NoError(t, ApproveLeave(entry, principalActor, "", now))
	assert.Equal(t, models.LeaveStatusApproved, entry.Status)
	assert.Equal(t, "principal", entry.ApprovedBy)
	assert.NotNil(t, entry.ApprovedAt)
}

func TestHODLeaveApprovedByPrincipalDirectly(t *testing.T) {
	entry := pendingLeave(hodActor)
	now := time.Now()

	require.NoError(t, ApproveLeave(entry, principalActor, "", now))
	assert.Equal(t, models.LeaveStatusApproved, entry.Status)
	assert.Nil(t, entry.HODApprovedAt)
}

func TestLeaveRejectionRecordsStageRole(t *testing.T) {
	entry := pendingLeave(facultyActor)
	now := time.Now()

	require.NoError(t, RejectLeave(entry, hodActor, "short staffed", now))
	assert.Equal(t, models.LeaveStatusRejected, entry.Status)
	assert.Equal(t, "hod", entry.RejectedBy)

	assert.ErrorIs(t, ApproveLeave(entry, principalActor, "", now), appErrors.ErrTerminal)
}

func TestLeaveRejectionAtPrincipalStage(t *testing.T) {
	entry := pendingLeave(hodActor)
	now := time.Now()

	require.NoError(t, RejectLeave(entry, principalActor, "", now))
	assert.Equal(t, "principal", entry.RejectedBy)
}

func TestLeaveApprovalRoleChecks(t *testing.T) {
	entry := pendingLeave(facultyActor)
	now := time.Now()

	assert.ErrorIs(t, ApproveLeave(entry, facultyActor, "", now), appErrors.ErrWrongRole)
	assert.ErrorIs(t, ApproveLeave(entry, principalActor, "", now), appErrors.ErrWrongRole)

	otherDeptHOD := Actor{ID: "hod-2", Role: models.RoleHOD, Department: "MECH"}
	assert.ErrorIs(t, ApproveLeave(entry, otherDeptHOD, "", now), appErrors.ErrDepartmentMismatch)
}
