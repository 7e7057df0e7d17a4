package workflow

import (
	"time"

	"github.com/noah-isme/cps-portal-api/internal/models"
	appErrors "github.com/noah-isme/cps-portal-api/pkg/errors"
)

// InitialLeaveStatus returns the entry stage for a new leave request. HOD
// submitters skip their own review stage and start at the principal.
func InitialLeaveStatus(ownerRole models.UserRole) models.LeaveStatus {
	if ownerRole == models.RoleHOD {
		return models.LeaveStatusPendingPrincipal
	}
	return models.LeaveStatusPendingHOD
}

// ApproveLeave advances a pending leave request one stage. Unlike the CPS
// chain, HOD approval always forwards to the principal; there is no
// single-stage terminal approval for faculty leave.
func ApproveLeave(entry *models.LeaveEntry, actor Actor, remarks string, now time.Time) error {
	if entry.Status.Terminal() {
		return appErrors.ErrTerminal
	}

	ts := now.UTC()
	switch entry.Status {
	case models.LeaveStatusPendingHOD:
		if actor.Role != models.RoleHOD {
			return appErrors.ErrWrongRole
		}
		if !models.SameDepartment(actor.Department, entry.Department) {
			return appErrors.ErrDepartmentMismatch
		}
		entry.HODApprovedAt = &ts
		entry.HODRemarks = remarks
		entry.Status = models.LeaveStatusPendingPrincipal
		return nil

	case models.LeaveStatusPendingPrincipal:
		if actor.Role != models.RolePrincipal {
			return appErrors.ErrWrongRole
		}
		entry.ApprovedAt = &ts
		entry.ApprovedBy = "principal"
		entry.Status = models.LeaveStatusApproved
		return nil

	default:
		return appErrors.Clone(appErrors.ErrInvalidTransition, "leave request is not pending approval")
	}
}

// RejectLeave terminates a pending leave request at either stage.
func RejectLeave(entry *models.LeaveEntry, actor Actor, remarks string, now time.Time) error {
	if entry.Status.Terminal() {
		return appErrors.ErrTerminal
	}

	var rejectedBy string
	switch entry.Status {
	case models.LeaveStatusPendingHOD:
		if actor.Role != models.RoleHOD {
			return appErrors.ErrWrongRole
		}
		if !models.SameDepartment(actor.Department, entry.Department) {
			return appErrors.ErrDepartmentMismatch
		}
		rejectedBy = "hod"
	case models.LeaveStatusPendingPrincipal:
		if actor.Role != models.RolePrincipal {
			return appErrors.ErrWrongRole
		}
		rejectedBy = "principal"
	default:
		return appErrors.Clone(appErrors.ErrInvalidTransition, "leave request is not pending approval")
	}

	ts := now.UTC()
	entry.RejectedAt = &ts
	entry.RejectedBy = rejectedBy
	entry.RejectionRemarks = remarks
	entry.Status = models.LeaveStatusRejected
	return nil
}
