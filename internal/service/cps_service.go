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

type cpsRepository interface {
	Create(ctx context.Context, entry *models.CPSEntry) error
	Get(ctx context.Context, id string) (*models.CPSEntry, error)
	Update(ctx context.Context, id string, patch models.CPSEntryPatch) (*models.CPSEntry, error)
	Replace(ctx context.Context, entry models.CPSEntry) error
	Remove(ctx context.Context, id string) error
	List(ctx context.Context, filter models.CPSFilter) ([]models.CPSEntry, error)
}

// CPSService implements the credit claim use cases on top of the approval
// state machine.
type CPSService struct {
	repo      cpsRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCPSService constructs the service.
func NewCPSService(repo cpsRepository, validate *validator.Validate, logger *zap.Logger) *CPSService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CPSService{repo: repo, validator: validate, logger: logger}
}

// CreateCPSRequest describes the create payload. Credits are never accepted
// from the client; they are copied from the activity catalog.
type CreateCPSRequest struct {
	Activity string `json:"activity_type" validate:"required"`
	Evidence string `json:"evidence"`
}

// UpdateCPSRequest describes the draft update payload.
type UpdateCPSRequest struct {
	Activity *string `json:"activity_type"`
	Evidence *string `json:"evidence"`
}

// ListCPSRequest describes listing filters.
type ListCPSRequest struct {
	Status   []models.CPSStatus
	Category models.CPSCategory
	OwnerID  string
}

// Catalog returns the fixed activity catalog.
func (s *CPSService) Catalog() []models.Activity {
	return models.ActivityCatalog()
}

// Create stores a new draft claim owned by the actor.
func (s *CPSService) Create(ctx context.Context, actor workflow.Actor, req CreateCPSRequest) (*models.CPSEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid claim payload")
	}

	activity, ok := models.LookupActivity(req.Activity)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown catalog activity")
	}

	entry := &models.CPSEntry{
		OwnerID:    actor.ID,
		OwnerName:  actor.Name,
		OwnerRole:  actor.Role,
		Department: actor.Department,
		Category:   activity.Category,
		Activity:   activity.Name,
		Credits:    activity.Credits,
		Evidence:   req.Evidence,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("cps entry created",
		zap.String("entry_id", entry.ID),
		zap.String("owner_id", actor.ID),
		zap.String("activity", activity.Name))
	return entry, nil
}

// Update applies a partial update to a draft owned by the actor. Changing
// the activity re-copies category and credits from the catalog.
func (s *CPSService) Update(ctx context.Context, actor workflow.Actor, id string, req UpdateCPSRequest) (*models.CPSEntry, error) {
	entry, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.OwnerID != actor.ID {
		return nil, appErrors.ErrNotOwner
	}
	if entry.Status != models.CPSStatusDraft {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only draft entries can be edited")
	}

	patch := models.CPSEntryPatch{Evidence: req.Evidence}
	if req.Activity != nil {
		activity, ok := models.LookupActivity(*req.Activity)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown catalog activity")
		}
		patch.Activity = &activity.Name
		patch.Category = &activity.Category
		patch.Credits = &activity.Credits
	}

	return s.repo.Update(ctx, id, patch)
}

// Delete removes a draft owned by the actor.
func (s *CPSService) Delete(ctx context.Context, actor workflow.Actor, id string) error {
	entry, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if entry.OwnerID != actor.ID && actor.Role != models.RoleAdmin {
		return appErrors.ErrNotOwner
	}
	if entry.Status != models.CPSStatusDraft {
		return appErrors.Clone(appErrors.ErrInvalidTransition, "only draft entries can be deleted")
	}
	return s.repo.Remove(ctx, id)
}

// Get returns a single claim, subject to visibility rules.
func (s *CPSService) Get(ctx context.Context, actor workflow.Actor, id string) (*models.CPSEntry, error) {
	entry, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canView(actor, entry) {
		return nil, appErrors.ErrForbidden
	}
	return entry, nil
}

// List returns claims visible to the actor: faculty see their own, HODs
// their department, principal and admin everything.
func (s *CPSService) List(ctx context.Context, actor workflow.Actor, req ListCPSRequest) ([]models.CPSEntry, error) {
	filter := models.CPSFilter{
		Status:   req.Status,
		Category: req.Category,
		OwnerID:  req.OwnerID,
	}
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

// Submit moves a draft into the approval chain.
func (s *CPSService) Submit(ctx context.Context, actor workflow.Actor, id string) (*models.CPSEntry, error) {
	return s.transition(ctx, id, func(entry *models.CPSEntry) error {
		return workflow.SubmitCPS(entry, actor, time.Now())
	})
}

// Approve advances a pending claim one stage.
func (s *CPSService) Approve(ctx context.Context, actor workflow.Actor, id, remarks string) (*models.CPSEntry, error) {
	return s.transition(ctx, id, func(entry *models.CPSEntry) error {
		return workflow.ApproveCPS(entry, actor, remarks, time.Now())
	})
}

// Reject terminates a pending claim.
func (s *CPSService) Reject(ctx context.Context, actor workflow.Actor, id, remarks string) (*models.CPSEntry, error) {
	return s.transition(ctx, id, func(entry *models.CPSEntry) error {
		return workflow.RejectCPS(entry, actor, remarks, time.Now())
	})
}

// Queue returns the claims awaiting action from the actor's stage.
func (s *CPSService) Queue(ctx context.Context, actor workflow.Actor) ([]models.CPSEntry, error) {
	switch actor.Role {
	case models.RoleHOD:
		return s.repo.List(ctx, models.CPSFilter{
			Department: actor.Department,
			Status:     []models.CPSStatus{models.CPSStatusPendingHOD},
		})
	case models.RolePrincipal:
		return s.repo.List(ctx, models.CPSFilter{
			Status: []models.CPSStatus{models.CPSStatusPendingPrincipal},
		})
	default:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "no approval queue for this role")
	}
}

func (s *CPSService) transition(ctx context.Context, id string, apply func(*models.CPSEntry) error) (*models.CPSEntry, error) {
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
	s.logger.Info("cps entry transitioned",
		zap.String("entry_id", entry.ID),
		zap.String("status", string(entry.Status)))
	return entry, nil
}

func (s *CPSService) canView(actor workflow.Actor, entry *models.CPSEntry) bool {
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
