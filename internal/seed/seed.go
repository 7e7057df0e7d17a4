// Package seed provides first-run fixtures: demo accounts and a handful of
// sample records so a fresh deployment has something to show. Seeds are only
// written when the corresponding store key does not exist yet.
package seed

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/cps-portal-api/internal/models"
)

// Demo account ids, stable so sample records can reference them.
const (
	FacultyID   = "usr-faculty-1"
	Faculty2ID  = "usr-faculty-2"
	HODID       = "usr-hod-cse"
	PrincipalID = "usr-principal"
	AdminID     = "usr-admin"
)

// DefaultPassword is the password shared by all demo accounts.
const DefaultPassword = "changeme123"

// Users returns the demo accounts. Hashes are generated at seed time so no
// digest lands in source control.
func Users() ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	mk := func(id, email, name string, role models.UserRole, dept string) models.User {
		return models.User{
			ID:           id,
			Email:        email,
			PasswordHash: string(hash),
			FullName:     name,
			Role:         role,
			Department:   dept,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}

	return []models.User{
		mk(FacultyID, "asha.rao@college.edu", "Dr. Asha Rao", models.RoleFaculty, "CSE"),
		mk(Faculty2ID, "vikram.das@college.edu", "Dr. Vikram Das", models.RoleFaculty, "CSE"),
		mk(HODID, "meera.iyer@college.edu", "Dr. Meera Iyer", models.RoleHOD, "CSE"),
		mk(PrincipalID, "principal@college.edu", "Dr. K. S. Menon", models.RolePrincipal, ""),
		mk(AdminID, "admin@college.edu", "Portal Admin", models.RoleAdmin, ""),
	}, nil
}

// CPSEntries returns sample credit claims in assorted states.
func CPSEntries() []models.CPSEntry {
	created := time.Date(2026, 6, 10, 9, 30, 0, 0, time.UTC)
	submitted := created.Add(2 * time.Hour)
	approved := submitted.Add(24 * time.Hour)

	return []models.CPSEntry{
		{
			ID:            "cps-sample-1",
			OwnerID:       FacultyID,
			OwnerName:     "Dr. Asha Rao",
			OwnerRole:     models.RoleFaculty,
			Department:    "CSE",
			Category:      models.CategoryResearch,
			Activity:      "Journal Publication",
			Credits:       15,
			Evidence:      "DOI 10.1000/sample.2026.001",
			Status:        models.CPSStatusApproved,
			CreatedAt:     created,
			SubmittedAt:   &submitted,
			HODApprovedAt: &approved,
			HODRemarks:    "Verified against the publisher listing",
		},
		{
			ID:          "cps-sample-2",
			OwnerID:     FacultyID,
			OwnerName:   "Dr. Asha Rao",
			OwnerRole:   models.RoleFaculty,
			Department:  "CSE",
			Category:    models.CategoryProfessional,
			Activity:    "FDP Completed",
			Credits:     8,
			Status:      models.CPSStatusPendingHOD,
			CreatedAt:   created.AddDate(0, 0, 5),
			SubmittedAt: &submitted,
		},
		{
			ID:         "cps-sample-3",
			OwnerID:    Faculty2ID,
			OwnerName:  "Dr. Vikram Das",
			OwnerRole:  models.RoleFaculty,
			Department: "CSE",
			Category:   models.CategoryInstitutional,
			Activity:   "Seminar Organized",
			Credits:    8,
			Status:     models.CPSStatusDraft,
			CreatedAt:  created.AddDate(0, 0, 7),
		},
	}
}

// LeaveEntries returns sample leave requests.
func LeaveEntries() []models.LeaveEntry {
	created := time.Date(2026, 7, 1, 11, 0, 0, 0, time.UTC)

	return []models.LeaveEntry{
		{
			ID:          "leave-sample-1",
			OwnerID:     FacultyID,
			OwnerName:   "Dr. Asha Rao",
			OwnerRole:   models.RoleFaculty,
			Department:  "CSE",
			LeaveType:   models.LeaveCasual,
			StartDate:   created.AddDate(0, 0, 14),
			EndDate:     created.AddDate(0, 0, 15),
			Reason:      "Family function",
			Status:      models.LeaveStatusPendingHOD,
			CreatedAt:   created,
			SubmittedAt: created,
		},
		{
			ID:          "leave-sample-2",
			OwnerID:     HODID,
			OwnerName:   "Dr. Meera Iyer",
			OwnerRole:   models.RoleHOD,
			Department:  "CSE",
			LeaveType:   models.LeaveOnDuty,
			StartDate:   created.AddDate(0, 0, 20),
			EndDate:     created.AddDate(0, 0, 22),
			Reason:      "Accreditation committee visit",
			Status:      models.LeaveStatusPendingPrincipal,
			CreatedAt:   created.Add(time.Hour),
			SubmittedAt: created.Add(time.Hour),
		},
	}
}

// Timetables returns one submitted timetable awaiting peer approval.
func Timetables() []models.TimetableData {
	created := time.Date(2026, 6, 20, 8, 0, 0, 0, time.UTC)
	submitted := created.Add(3 * time.Hour)

	return []models.TimetableData{
		{
			ID:            "tt-sample-1",
			Department:    "Computer Science & Engineering",
			Semester:      "5",
			Section:       "A",
			AcademicYear:  "2026-27",
			Room:          "CS-201",
			Version:       "1.0",
			EffectiveFrom: "2026-07-01",
			Status:        models.TimetableStatusPendingFaculty,
			TimeSlots:     models.DefaultTimeSlots(),
			Cells: []models.TimetableCell{
				{Day: "Monday", TimeSlotID: "p1", SubjectCode: "CS501", SubjectName: "Operating Systems", FacultyID: FacultyID, FacultyName: "Dr. Asha Rao"},
				{Day: "Monday", TimeSlotID: "p2", SubjectCode: "CS502", SubjectName: "Compiler Design", FacultyID: Faculty2ID, FacultyName: "Dr. Vikram Das"},
				{Day: "Tuesday", TimeSlotID: "p3", SubjectCode: "CS503", SubjectName: "Computer Networks", FacultyID: FacultyID, FacultyName: "Dr. Asha Rao"},
			},
			CreatedAt:     created,
			CreatedBy:     FacultyID,
			CreatedByName: "Dr. Asha Rao",
			SubmittedAt:   &submitted,
		},
	}
}
