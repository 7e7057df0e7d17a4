package models

import "time"

// TimetableStatus tracks a timetable through peer review and HOD sign-off.
type TimetableStatus string

const (
	TimetableStatusDraft          TimetableStatus = "draft"
	TimetableStatusPendingFaculty TimetableStatus = "pending_faculty"
	TimetableStatusPendingHOD     TimetableStatus = "pending_hod"
	TimetableStatusApproved       TimetableStatus = "approved"
	TimetableStatusRejected       TimetableStatus = "rejected"
)

// Terminal reports whether no further transition is defined for the status.
func (s TimetableStatus) Terminal() bool {
	return s == TimetableStatusApproved || s == TimetableStatusRejected
}

// TimeSlot is one day-independent time window in the fixed slot sequence.
type TimeSlot struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsBreak   bool   `json:"is_break,omitempty"`
}

// TimetableCell is a populated slot, uniquely addressed by (Day, TimeSlotID).
type TimetableCell struct {
	Day         string `json:"day"`
	TimeSlotID  string `json:"time_slot_id"`
	SubjectCode string `json:"subject_code"`
	SubjectName string `json:"subject_name"`
	FacultyID   string `json:"faculty_id"`
	FacultyName string `json:"faculty_name"`
	Room        string `json:"room,omitempty"`
}

// FacultyApproval records one faculty member's peer sign-off. At most one
// entry exists per faculty id; re-approving updates it in place.
type FacultyApproval struct {
	FacultyID   string     `json:"faculty_id"`
	FacultyName string     `json:"faculty_name"`
	Approved    bool       `json:"approved"`
	Remarks     string     `json:"remarks,omitempty"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
}

// SubjectDetail is the deduplicated roster derived from populated cells.
type SubjectDetail struct {
	SubjectCode string `json:"subject_code"`
	SubjectName string `json:"subject_name"`
	FacultyName string `json:"faculty_name"`
}

// TimetableData is a timetable header plus its slots, cells and approvals.
type TimetableData struct {
	ID            string          `json:"id"`
	Department    string          `json:"department"`
	Semester      string          `json:"semester"`
	Section       string          `json:"section"`
	AcademicYear  string          `json:"academic_year"`
	Room          string          `json:"room"`
	Version       string          `json:"version"`
	EffectiveFrom string          `json:"effective_from"`
	Status        TimetableStatus `json:"status"`

	TimeSlots        []TimeSlot        `json:"time_slots"`
	Cells            []TimetableCell   `json:"cells"`
	FacultyApprovals []FacultyApproval `json:"faculty_approvals"`

	CreatedAt        time.Time  `json:"created_at"`
	CreatedBy        string     `json:"created_by"`
	CreatedByName    string     `json:"created_by_name,omitempty"`
	SubmittedAt      *time.Time `json:"submitted_at,omitempty"`
	HODApprovedAt    *time.Time `json:"hod_approved_at,omitempty"`
	HODApprovedBy    string     `json:"hod_approved_by,omitempty"`
	HODRemarks       string     `json:"hod_remarks,omitempty"`
	RejectedAt       *time.Time `json:"rejected_at,omitempty"`
	RejectedBy       string     `json:"rejected_by,omitempty"`
	RejectionRemarks string     `json:"rejection_remarks,omitempty"`
}

// Cell returns the populated cell at (day, slotID), if any.
func (t *TimetableData) Cell(day, slotID string) (TimetableCell, bool) {
	for _, cell := range t.Cells {
		if cell.Day == day && cell.TimeSlotID == slotID {
			return cell, true
		}
	}
	return TimetableCell{}, false
}

// ApprovedFacultyCount counts distinct faculty whose approval flag is set.
func (t *TimetableData) ApprovedFacultyCount() int {
	count := 0
	for _, fa := range t.FacultyApprovals {
		if fa.Approved {
			count++
		}
	}
	return count
}

// Subjects derives the deduplicated subject roster from populated cells,
// preserving first-seen order. Used as the fallback when no explicit
// subject detail list has been authored.
func (t *TimetableData) Subjects() []SubjectDetail {
	seen := make(map[string]struct{}, len(t.Cells))
	subjects := make([]SubjectDetail, 0, len(t.Cells))
	for _, cell := range t.Cells {
		if cell.SubjectCode == "" {
			continue
		}
		if _, ok := seen[cell.SubjectCode]; ok {
			continue
		}
		seen[cell.SubjectCode] = struct{}{}
		subjects = append(subjects, SubjectDetail{
			SubjectCode: cell.SubjectCode,
			SubjectName: cell.SubjectName,
			FacultyName: cell.FacultyName,
		})
	}
	return subjects
}

// DefaultTimeSlots is the institution's fixed period sequence.
func DefaultTimeSlots() []TimeSlot {
	return []TimeSlot{
		{ID: "p1", Label: "Period 1", StartTime: "09:00", EndTime: "09:50"},
		{ID: "p2", Label: "Period 2", StartTime: "09:50", EndTime: "10:40"},
		{ID: "b1", Label: "Short Break", StartTime: "10:40", EndTime: "11:00", IsBreak: true},
		{ID: "p3", Label: "Period 3", StartTime: "11:00", EndTime: "11:50"},
		{ID: "p4", Label: "Period 4", StartTime: "11:50", EndTime: "12:40"},
		{ID: "lb", Label: "Lunch", StartTime: "12:40", EndTime: "13:30", IsBreak: true},
		{ID: "p5", Label: "Period 5", StartTime: "13:30", EndTime: "14:20"},
		{ID: "p6", Label: "Period 6", StartTime: "14:20", EndTime: "15:10"},
		{ID: "p7", Label: "Period 7", StartTime: "15:10", EndTime: "16:00"},
	}
}

// TimetableDays is the teaching week.
var TimetableDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
