package workflow

import (
	"time"

	"github.com/noah-isme/cps-portal-api/internal/models"
	appErrors "github.com/noah-isme/cps-portal-api/pkg/errors"
)

// SubmitCPS moves a draft entry into HOD review. Owner only.
func SubmitCPS(entry *models.CPSEntry, actor Actor, now time.Time) error {
	if entry.Status.Terminal() {
		return appErrors.ErrTerminal
	}
	if entry.Status != models.CPSStatusDraft {
		return appErrors.Clone(appErrors.ErrInvalidTransition, "only draft entries can be submitted")
	}
	if actor.ID != entry.OwnerID {
		return appErrors.ErrNotOwner
	}

	ts := now.UTC()
	entry.SubmittedAt = &ts
	entry.Status = models.CPSStatusPendingHOD
	return nil
}

// ApproveCPS advances a pending entry one stage.
//
// An entry submitted by an HOD needs a second Principal sign-off, while a
// plain faculty entry is final once the HOD approves it.
func ApproveCPS(entry *models.CPSEntry, actor Actor, remarks string, now time.Time) error {
	if entry.Status.Terminal() {
		return appErrors.ErrTerminal
	}

	ts := now.UTC()
	switch entry.Status {
	case models.CPSStatusPendingHOD:
		if actor.Role != models.RoleHOD {
			return appErrors.ErrWrongRole
		}
		if !models.SameDepartment(actor.Department, entry.Department) {
			return appErrors.ErrDepartmentMismatch
		}
		entry.HODApprovedAt = &ts
		entry.HODRemarks = remarks
		if entry.OwnerRole == models.RoleHOD {
			entry.Status = models.CPSStatusPendingPrincipal
		} else {
			entry.Status = models.CPSStatusApproved
		}
		return nil

	case models.CPSStatusPendingPrincipal:
		if actor.Role != models.RolePrincipal {
			return appErrors.ErrWrongRole
		}
		entry.PrincipalApprovedAt = &ts
		entry.PrincipalRemarks = remarks
		entry.Status = models.CPSStatusApproved
		return nil

	default:
		return appErrors.Clone(appErrors.ErrInvalidTransition, "entry is not pending approval")
	}
}

// RejectCPS terminates a pending entry. Rejection is terminal; there is no
// resubmission path.
func RejectCPS(entry *models.CPSEntry, actor Actor, remarks string, now time.Time) error {
	if entry.Status.Terminal() {
		return appErrors.ErrTerminal
	}

	switch entry.Status {
	case models.CPSStatusPendingHOD:
		if actor.Role != models.RoleHOD {
			return appErrors.ErrWrongRole
		}
		if !models.SameDepartment(actor.Department, entry.Department) {
			return appErrors.ErrDepartmentMismatch
		}
	case models.CPSStatusPendingPrincipal:
		if actor.Role != models.RolePrincipal {
			return appErrors.ErrWrongRole
		}
	default:
		return appErrors.Clone(appErrors.ErrInvalidTransition, "entry is not pending approval")
	}

	ts := now.UTC()
	entry.RejectedAt = &ts
	entry.RejectedBy = actor.Role
	entry.RejectionRemarks = remarks
	entry.Status = models.CPSStatusRejected
	return nil
}
