package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/cps-portal-api/internal/models"
	"github.com/noah-isme/cps-portal-api/internal/workflow"
)

// DashboardService assembles the role-scoped overview from the three record
// collections. Everything here is derived; nothing is stored.
type DashboardService struct {
	cps    cpsRepository
	leaves leaveRepository
	tables timetableRepository
	logger *zap.Logger
}

// NewDashboardService constructs the service.
func NewDashboardService(cps cpsRepository, leaves leaveRepository, tables timetableRepository, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{cps: cps, leaves: leaves, tables: tables, logger: logger}
}

// DashboardOverview is the aggregated snapshot returned to the client.
type DashboardOverview struct {
	CPS            CPSOverview           `json:"cps"`
	Leaves         StatusCounts          `json:"leaves"`
	Timetables     StatusCounts          `json:"timetables"`
	PendingActions int                   `json:"pending_actions"`
	User           models.UserInfo       `json:"user"`
	Catalog        []models.Activity     `json:"catalog,omitempty"`
	RecentEntries  []models.CPSEntry     `json:"recent_entries"`
	RecentLeaves   []models.LeaveEntry   `json:"recent_leaves"`
	Reviewable     []models.TimetableData `json:"reviewable_timetables,omitempty"`
}

// CPSOverview summarizes credit claims for the viewer's scope.
type CPSOverview struct {
	ByStatus        StatusCounts   `json:"by_status"`
	ApprovedCredits int            `json:"approved_credits"`
	ByCategory      map[string]int `json:"credits_by_category"`
}

// StatusCounts maps status value to record count.
type StatusCounts map[string]int

const recentLimit = 5

// Overview builds the dashboard for the actor. Faculty see their own
// records, HODs their department, principal and admin everything. Pending
// actions counts the records waiting on the actor's stage.
func (s *DashboardService) Overview(ctx context.Context, actor workflow.Actor) (*DashboardOverview, error) {
	cpsFilter := models.CPSFilter{}
	leaveFilter := models.LeaveFilter{}
	department := ""
	switch actor.Role {
	case models.RoleFaculty:
		cpsFilter.OwnerID = actor.ID
		leaveFilter.OwnerID = actor.ID
	case models.RoleHOD:
		cpsFilter.Department = actor.Department
		leaveFilter.Department = actor.Department
		department = actor.Department
	}

	entries, err := s.cps.List(ctx, cpsFilter)
	if err != nil {
		return nil, err
	}
	leaves, err := s.leaves.List(ctx, leaveFilter)
	if err != nil {
		return nil, err
	}
	tables, err := s.tables.List(ctx, department)
	if err != nil {
		return nil, err
	}

	overview := &DashboardOverview{
		CPS: CPSOverview{
			ByStatus:   StatusCounts{},
			ByCategory: map[string]int{},
		},
		Leaves:     StatusCounts{},
		Timetables: StatusCounts{},
		User: models.UserInfo{
			ID:         actor.ID,
			FullName:   actor.Name,
			Role:       actor.Role,
			Department: actor.Department,
		},
	}

	for _, e := range entries {
		overview.CPS.ByStatus[string(e.Status)]++
		if e.Status == models.CPSStatusApproved {
			overview.CPS.ApprovedCredits += e.Credits
			overview.CPS.ByCategory[string(e.Category)] += e.Credits
		}
	}
	for _, l := range leaves {
		overview.Leaves[string(l.Status)]++
	}
	for _, t := range tables {
		overview.Timetables[string(t.Status)]++
	}

	overview.RecentEntries = head(entries, recentLimit)
	overview.RecentLeaves = head(leaves, recentLimit)
	overview.PendingActions = s.pendingActions(actor, entries, leaves, tables)

	if actor.Role == models.RoleFaculty {
		overview.Catalog = models.ActivityCatalog()
	}
	if actor.Role == models.RoleFaculty || actor.Role == models.RoleHOD {
		for _, t := range tables {
			if t.Status == models.TimetableStatusPendingFaculty {
				overview.Reviewable = append(overview.Reviewable, t)
			}
		}
	}

	return overview, nil
}

func (s *DashboardService) pendingActions(actor workflow.Actor, entries []models.CPSEntry, leaves []models.LeaveEntry, tables []models.TimetableData) int {
	pending := 0
	switch actor.Role {
	case models.RoleHOD:
		for _, e := range entries {
			if e.Status == models.CPSStatusPendingHOD {
				pending++
			}
		}
		for _, l := range leaves {
			if l.Status == models.LeaveStatusPendingHOD {
				pending++
			}
		}
		for _, t := range tables {
			if t.Status == models.TimetableStatusPendingHOD {
				pending++
			}
		}
	case models.RolePrincipal:
		for _, e := range entries {
			if e.Status == models.CPSStatusPendingPrincipal {
				pending++
			}
		}
		for _, l := range leaves {
			if l.Status == models.LeaveStatusPendingPrincipal {
				pending++
			}
		}
	case models.RoleFaculty:
		for _, t := range tables {
			if t.Status != models.TimetableStatusPendingFaculty {
				continue
			}
			reviewed := false
			for _, fa := range t.FacultyApprovals {
				if fa.FacultyID == actor.ID {
					reviewed = true
					break
				}
			}
			if !reviewed {
				pending++
			}
		}
	}
	return pending
}

func head[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
