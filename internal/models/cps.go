package models

import "time"

// CPSStatus tracks a CPS entry along its approval chain.
type CPSStatus string

const (
	CPSStatusDraft            CPSStatus = "draft"
	CPSStatusPendingHOD       CPSStatus = "pending_hod"
	CPSStatusPendingPrincipal CPSStatus = "pending_principal"
	CPSStatusApproved         CPSStatus = "approved"
	CPSStatusRejected         CPSStatus = "rejected"
)

// Terminal reports whether no further transition is defined for the status.
func (s CPSStatus) Terminal() bool {
	return s == CPSStatusApproved || s == CPSStatusRejected
}

// CPSCategory buckets catalog activities.
type CPSCategory string

const (
	CategoryResearch      CPSCategory = "research"
	CategoryAcademic      CPSCategory = "academic"
	CategoryProfessional  CPSCategory = "professional"
	CategoryInstitutional CPSCategory = "institutional"
)

// ValidCategory reports whether the value is one of the four fixed buckets.
func ValidCategory(c CPSCategory) bool {
	switch c {
	case CategoryResearch, CategoryAcademic, CategoryProfessional, CategoryInstitutional:
		return true
	}
	return false
}

// CPSEntry is a Continuing Professional Score credit claim.
//
// Credits are copied from the activity catalog when the claim is created
// (or when the activity is changed while still a draft) and are immutable
// from submission onward, even if the catalog changes later.
type CPSEntry struct {
	ID         string      `json:"id"`
	OwnerID    string      `json:"owner_id"`
	OwnerName  string      `json:"owner_name"`
	OwnerRole  UserRole    `json:"owner_role"`
	Department string      `json:"department"`
	Category   CPSCategory `json:"category"`
	Activity   string      `json:"activity_type"`
	Credits    int         `json:"credits"`
	Evidence   string      `json:"evidence,omitempty"`
	Status     CPSStatus   `json:"status"`

	CreatedAt           time.Time  `json:"created_at"`
	SubmittedAt         *time.Time `json:"submitted_at,omitempty"`
	HODApprovedAt       *time.Time `json:"hod_approved_at,omitempty"`
	HODRemarks          string     `json:"hod_remarks,omitempty"`
	PrincipalApprovedAt *time.Time `json:"principal_approved_at,omitempty"`
	PrincipalRemarks    string     `json:"principal_remarks,omitempty"`
	RejectedAt          *time.Time `json:"rejected_at,omitempty"`
	RejectedBy          UserRole   `json:"rejected_by,omitempty"`
	RejectionRemarks    string     `json:"rejection_remarks,omitempty"`
}

// CPSEntryPatch is the typed partial update applied to drafts. Nil fields
// are left untouched; unknown fields cannot exist by construction.
// Category and Credits are derived from the catalog when Activity changes
// and are filled by the service, never by callers.
type CPSEntryPatch struct {
	Activity *string
	Category *CPSCategory
	Credits  *int
	Evidence *string
}

// CPSFilter constrains listing queries.
type CPSFilter struct {
	OwnerID    string
	Department string
	Status     []CPSStatus
	Category   CPSCategory
}
