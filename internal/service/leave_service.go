package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cps-portal-api/internal/models"
	"github.com/noah-isme/cps-portal-api/internal/workflow"
	appErrors "github.com/noah-isme/cps-portal-api/pkg/errors"
)

type leaveRepository interface {
	Create(ctx context.Context, entry *models.LeaveEntry) error
	Get(ctx context.Context, id string) (*models.LeaveEntry, error)
	Replace(ctx context.Context, entry models.LeaveEntry) error
	Remove(ctx context.Context, id string) error
	List(ctx context.Context, filter models.LeaveFilter) ([]models.LeaveEntry, error)
}

// LeaveService implements leave request use cases. Creating a request
// submits it; there is no draft stage.
type LeaveService struct {
	repo      leaveRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLeaveService constructs the service.
func NewLeaveService(repo leaveRepository, validate *validator.Validate, logger *zap.Logger) *LeaveService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeaveService{repo: repo, validator: validate, logger: logger}
}

// CreateLeaveRequest describes the create payload.
type CreateLeaveRequest struct {
	LeaveType string    `json:"leave_type" validate:"required"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
	Reason    string    `json:"reason" validate:"required"`
}

// ListLeaveRequest describes listing filters.
type ListLeaveRequest struct {
	Status  []models.LeaveStatus
	OwnerID string
}

// Create stores and submits a new leave request. HOD submitters enter the
// chain at the principal stage.
func (s *LeaveService) Create(ctx context.Context, actor workflow.Actor, req CreateLeaveRequest) (*models.LeaveEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid leave payload")
	}
	if !models.ValidLeaveType(models.LeaveType(req.LeaveType)) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown leave type")
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date precedes start date")
	}

	entry := &models.LeaveEntry{
		OwnerID:    actor.ID,
		OwnerName:  actor.Name,
		OwnerRole:  actor.Role,
		Department: actor.Department,
		LeaveType:  models.LeaveType(req.LeaveType),
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Reason:     req.Reason,
		Status:     workflow.InitialLeaveStatus(actor.Role),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("leave request created",
		zap.String("leave_id", entry.ID),
		zap.String("owner_id", actor.ID),
		zap.String("status", string(entry.Status)))
	return entry, nil
}

// Get returns a single request, subject to visibility rules.
func (s *LeaveService) Get(ctx context.Context, actor workflow.Actor, id string) (*models.LeaveEntry, error) {
	entry, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canView(actor, entry) {
		return nil, appErrors.ErrForbidden
	}
	return entry, nil
}

// List returns requests visible to the actor.
func (s *LeaveService) List(ctx context.Context, actor workflow.Actor, req ListLeaveRequest) ([]models.LeaveEntry, error) {
	filter := models.LeaveFilter{Status: req.Status, OwnerID: req.OwnerID}
	switch actor.Role {
	case models.RoleFaculty:
		filter.OwnerID = actor.ID
	case models.RoleHOD:
		if filter.OwnerID == "" {
			filter.Department = actor.Department
		}
	case models.RolePrincipal, models.RoleAdmin:
		// no scoping
	default:
		return nil, appErrors.ErrForbidden
	}
	return s.repo.List(ctx, filter)
}

// Cancel withdraws a still pending request. Owner only.
func (s *LeaveService) Cancel(ctx context.Context, actor workflow.Actor, id string) error {
	entry, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if entry.OwnerID != actor.ID && actor.Role != models.RoleAdmin {
		return appErrors.ErrNotOwner
	}
	if entry.Status.Terminal() {
		return appErrors.ErrTerminal
	}
	return s.repo.Remove(ctx, id)
}

// Approve advances a pending request one stage. HOD approval always
// forwards to the principal.
func (s *LeaveService) Approve(ctx context.Context, actor workflow.Actor, id, remarks string) (*models.LeaveEntry, error) {
	return s.transition(ctx, id, func(entry *models.LeaveEntry) error {
		return workflow.ApproveLeave(entry, actor, remarks, time.Now())
	})
}

// Reject terminates a pending request.
func (s *LeaveService) Reject(ctx context.Context, actor workflow.Actor, id, remarks string) (*models.LeaveEntry, error) {
	return s.transition(ctx, id, func(entry *models.LeaveEntry) error {
		return workflow.RejectLeave(entry, actor, remarks, time.Now())
	})
}

// Queue returns the requests awaiting action from the actor's stage.
func (s *LeaveService) Queue(ctx context.Context, actor workflow.Actor) ([]models.LeaveEntry, error) {
	switch actor.Role {
	case models.RoleHOD:
		return s.repo.List(ctx, models.LeaveFilter{
			Department: actor.Department,
			Status:     []models.LeaveStatus{models.LeaveStatusPendingHOD},
		})
	case models.RolePrincipal:
		return s.repo.List(ctx, models.LeaveFilter{
			Status: []models.LeaveStatus{models.LeaveStatusPendingPrincipal},
		})
	default:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "no approval queue for this role")
	}
}

func (s *LeaveService) transition(ctx context.Context, id string, apply func(*models.LeaveEntry) error) (*models.LeaveEntry, error) {
	entry, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(entry); err != nil {
		return nil, err
	}
	if err := s.repo.Replace(ctx, *entry); err != nil {
		return nil, err
	}
	s.logger.Info("leave request transitioned",
		zap.String("leave_id", entry.ID),
		zap.String("status", string(entry.Status)))
	return entry, nil
}

func (s *LeaveService) canView(actor workflow.Actor, entry *models.LeaveEntry) bool {
	switch {
	case entry.OwnerID == actor.ID:
		return true
	case actor.Role == models.RoleHOD && models.SameDepartment(actor.Department, entry.Department):
		return true
	case actor.Role == models.RolePrincipal || actor.Role == models.RoleAdmin:
		return true
	}
	return false
}
