package workflow

import (
	"time"

	"github.com/noah-isme/cps-portal-api/internal/models"
	appErrors "github.com/noah-isme/cps-portal-api/pkg/errors"
)

// UpsertTimetableCell adds or replaces the cell at (day, slot). Cells are
// mutable only while the timetable is a draft; a second insert at an
// occupied key resolves to an update, never a duplicate.
func UpsertTimetableCell(t *models.TimetableData, cell models.TimetableCell) error {
	if t.Status != models.TimetableStatusDraft {
		return appErrors.Clone(appErrors.ErrInvalidTransition, "cells can only be edited on a draft timetable")
	}
	slot, ok := findSlot(t, cell.TimeSlotID)
	if !ok {
		return appErrors.Clone(appErrors.ErrValidation, "unknown time slot")
	}
	if slot.IsBreak {
		return appErrors.Clone(appErrors.ErrValidation, "break slots cannot hold a class")
	}
	if !validDay(cell.Day) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown day")
	}

	for i := range t.Cells {
		if t.Cells[i].Day == cell.Day && t.Cells[i].TimeSlotID == cell.TimeSlotID {
			t.Cells[i] = cell
			return nil
		}
	}
	t.Cells = append(t.Cells, cell)
	return nil
}

// DeleteTimetableCell removes the cell at (day, slot); removing an empty
// key is a no-op. Draft-only like all cell mutation.
func DeleteTimetableCell(t *models.TimetableData, day, slotID string) error {
	if t.Status != models.TimetableStatusDraft {
		return appErrors.Clone(appErrors.ErrInvalidTransition, "cells can only be edited on a draft timetable")
	}
	for i := range t.Cells {
		if t.Cells[i].Day == day && t.Cells[i].TimeSlotID == slotID {
			t.Cells = append(t.Cells[:i], t.Cells[i+1:]...)
			return nil
		}
	}
	return nil
}

// SubmitTimetable moves a draft into faculty peer review. Owner only, and
// the draft must carry at least one populated cell. Any approvals carried
// over from a previous draft round are reset.
func SubmitTimetable(t *models.TimetableData, actor Actor, now time.Time) error {
	if t.Status.Terminal() {
		return appErrors.ErrTerminal
	}
	if t.Status != models.TimetableStatusDraft {
		return appErrors.Clone(appErrors.ErrInvalidTransition, "only draft timetables can be submitted")
	}
	if t.CreatedBy != "" && t.CreatedBy != actor.ID {
		return appErrors.ErrNotOwner
	}
	if len(t.Cells) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "timetable has no populated cells")
	}

	ts := now.UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = ts
	}
	t.CreatedBy = actor.ID
	t.CreatedByName = actor.Name
	t.SubmittedAt = &ts
	t.FacultyApprovals = nil
	t.Status = models.TimetableStatusPendingFaculty
	return nil
}

// ApproveTimetableByFaculty records one faculty member's peer sign-off,
// idempotently per faculty: re-approving updates the existing entry. Once
// the count of approving faculty reaches threshold the timetable advances
// to HOD review. The gate is a raw count, not a roster match.
func ApproveTimetableByFaculty(t *models.TimetableData, facultyID, facultyName, remarks string, threshold int, now time.Time) error {
	if t.Status.Terminal() {
		return appErrors.ErrTerminal
	}
	if t.Status != models.TimetableStatusPendingFaculty {
		return appErrors.Clone(appErrors.ErrInvalidTransition, "timetable is not awaiting faculty review")
	}
	if facultyID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "faculty id is required")
	}

	ts := now.UTC()
	approval := models.FacultyApproval{
		FacultyID:   facultyID,
		FacultyName: facultyName,
		Approved:    true,
		Remarks:     remarks,
		ApprovedAt:  &ts,
	}
	updated := false
	for i := range t.FacultyApprovals {
		if t.FacultyApprovals[i].FacultyID == facultyID {
			t.FacultyApprovals[i] = approval
			updated = true
			break
		}
	}
	if !updated {
		t.FacultyApprovals = append(t.FacultyApprovals, approval)
	}

	if threshold < 1 {
		threshold = 1
	}
	if t.ApprovedFacultyCount() >= threshold {
		t.Status = models.TimetableStatusPendingHOD
	}
	return nil
}

// ApproveTimetableByHOD finalizes a timetable. The acting HOD's department
// must denote the timetable's department, reconciled across code and label
// forms.
func ApproveTimetableByHOD(t *models.TimetableData, actor Actor, remarks string, now time.Time) error {
	if t.Status.Terminal() {
		return appErrors.ErrTerminal
	}
	if t.Status != models.TimetableStatusPendingHOD {
		return appErrors.Clone(appErrors.ErrInvalidTransition, "timetable is not awaiting HOD approval")
	}
	if actor.Role != models.RoleHOD {
		return appErrors.ErrWrongRole
	}
	if !models.SameDepartment(actor.Department, t.Department) {
		return appErrors.ErrDepartmentMismatch
	}

	ts := now.UTC()
	t.HODApprovedAt = &ts
	t.HODApprovedBy = actor.ID
	t.HODRemarks = remarks
	t.Status = models.TimetableStatusApproved
	return nil
}

// RejectTimetable terminates a timetable under HOD review.
func RejectTimetable(t *models.TimetableData, actor Actor, remarks string, now time.Time) error {
	if t.Status.Terminal() {
		return appErrors.ErrTerminal
	}
	if t.Status != models.TimetableStatusPendingHOD {
		return appErrors.Clone(appErrors.ErrInvalidTransition, "timetable is not awaiting HOD approval")
	}
	if actor.Role != models.RoleHOD {
		return appErrors.ErrWrongRole
	}
	if !models.SameDepartment(actor.Department, t.Department) {
		return appErrors.ErrDepartmentMismatch
	}

	ts := now.UTC()
	t.RejectedAt = &ts
	t.RejectedBy = actor.ID
	t.RejectionRemarks = remarks
	t.Status = models.TimetableStatusRejected
	return nil
}

func findSlot(t *models.TimetableData, slotID string) (models.TimeSlot, bool) {
	for _, slot := range t.TimeSlots {
		if slot.ID == slotID {
			return slot, true
		}
	}
	return models.TimeSlot{}, false
}

func validDay(day string) bool {
	for _, d := range models.TimetableDays {
		if d == day {
			return true
		}
	}
	return false
}
