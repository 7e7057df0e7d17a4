package models

import "time"

// LeaveStatus tracks a leave request along its approval chain. There is no
// draft stage: creating a leave request submits it.
type LeaveStatus string

const (
	LeaveStatusPendingHOD       LeaveStatus = "pending_hod"
	LeaveStatusPendingPrincipal LeaveStatus = "pending_principal"
	LeaveStatusApproved         LeaveStatus = "approved"
	LeaveStatusRejected         LeaveStatus = "rejected"
)

// Terminal reports whether no further transition is defined for the status.
func (s LeaveStatus) Terminal() bool {
	return s == LeaveStatusApproved || s == LeaveStatusRejected
}

// LeaveType enumerates the supported leave categories.
type LeaveType string

const (
	LeaveCasual  LeaveType = "casual"
	LeaveMedical LeaveType = "medical"
	LeaveEarned  LeaveType = "earned"
	LeaveOnDuty  LeaveType = "on_duty"
)

// ValidLeaveType reports whether the value is a known leave category.
func ValidLeaveType(t LeaveType) bool {
	switch t {
	case LeaveCasual, LeaveMedical, LeaveEarned, LeaveOnDuty:
		return true
	}
	return false
}

// LeaveEntry is a leave request. HOD submitters enter the chain at the
// principal stage since they cannot review themselves.
type LeaveEntry struct {
	ID         string      `json:"id"`
	OwnerID    string      `json:"owner_id"`
	OwnerName  string      `json:"owner_name"`
	OwnerRole  UserRole    `json:"owner_role"`
	Department string      `json:"department"`
	LeaveType  LeaveType   `json:"leave_type"`
	StartDate  time.Time   `json:"start_date"`
	EndDate    time.Time   `json:"end_date"`
	Reason     string      `json:"reason"`
	Status     LeaveStatus `json:"status"`

	CreatedAt        time.Time  `json:"created_at"`
	SubmittedAt      time.Time  `json:"submitted_at"`
	HODApprovedAt    *time.Time `json:"hod_approved_at,omitempty"`
	HODRemarks       string     `json:"hod_remarks,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	ApprovedBy       string     `json:"approved_by,omitempty"`
	RejectedAt       *time.Time `json:"rejected_at,omitempty"`
	RejectedBy       string     `json:"rejected_by,omitempty"`
	RejectionRemarks string     `json:"rejection_remarks,omitempty"`
}

// LeaveFilter constrains listing queries.
type LeaveFilter struct {
	OwnerID    string
	Department string
	Status     []LeaveStatus
}
