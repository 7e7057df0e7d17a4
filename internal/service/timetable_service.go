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

type timetableRepository interface {
	Draft(ctx context.Context) (*models.TimetableData, error)
	SaveDraft(ctx context.Context, draft models.TimetableData) (*models.TimetableData, error)
	Promote(ctx context.Context, submitted models.TimetableData) error
	Get(ctx context.Context, id string) (*models.TimetableData, error)
	Replace(ctx context.Context, tt models.TimetableData) error
	List(ctx context.Context, department string, statuses ...models.TimetableStatus) ([]models.TimetableData, error)
}

// TimetableService implements the timetable editing and review use cases.
// One draft at a time is edited; submitting promotes it into the review
// list and frees the draft slot.
type TimetableService struct {
	repo             timetableRepository
	validator        *validator.Validate
	logger           *zap.Logger
	facultyThreshold int
}

// NewTimetableService constructs the service. threshold is the count of
// distinct approving faculty required to pass peer review.
func NewTimetableService(repo timetableRepository, validate *validator.Validate, logger *zap.Logger, threshold int) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if threshold < 1 {
		threshold = 1
	}
	return &TimetableService{repo: repo, validator: validate, logger: logger, facultyThreshold: threshold}
}

// DraftHeaderRequest describes the draft header payload.
type DraftHeaderRequest struct {
	Department    string `json:"department" validate:"required"`
	Semester      string `json:"semester" validate:"required"`
	Section       string `json:"section" validate:"required"`
	AcademicYear  string `json:"academic_year" validate:"required"`
	Room          string `json:"room"`
	Version       string `json:"version"`
	EffectiveFrom string `json:"effective_from"`
}

// CellRequest describes a cell upsert payload.
type CellRequest struct {
	Day         string `json:"day" validate:"required"`
	TimeSlotID  string `json:"time_slot_id" validate:"required"`
	SubjectCode string `json:"subject_code" validate:"required"`
	SubjectName string `json:"subject_name" validate:"required"`
	FacultyID   string `json:"faculty_id" validate:"required"`
	FacultyName string `json:"faculty_name"`
	Room        string `json:"room"`
}

// Draft returns the draft in progress.
func (s *TimetableService) Draft(ctx context.Context) (*models.TimetableData, error) {
	return s.repo.Draft(ctx)
}

// SaveDraftHeader creates the draft or updates its header fields. Cells and
// slots survive a header update.
func (s *TimetableService) SaveDraftHeader(ctx context.Context, actor workflow.Actor, req DraftHeaderRequest) (*models.TimetableData, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable header")
	}

	draft, err := s.repo.Draft(ctx)
	if err != nil {
		if err != appErrors.ErrNotFound {
			return nil, err
		}
		draft = &models.TimetableData{
			Status:    models.TimetableStatusDraft,
			TimeSlots: models.DefaultTimeSlots(),
			CreatedBy: actor.ID,
		}
	}
	if draft.Status != models.TimetableStatusDraft {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "timetable is no longer a draft")
	}

	draft.Department = req.Department
	draft.Semester = req.Semester
	draft.Section = req.Section
	draft.AcademicYear = req.AcademicYear
	draft.Room = req.Room
	draft.Version = req.Version
	draft.EffectiveFrom = req.EffectiveFrom

	return s.repo.SaveDraft(ctx, *draft)
}

// UpsertCell adds or replaces one draft cell.
func (s *TimetableService) UpsertCell(ctx context.Context, req CellRequest) (*models.TimetableData, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid cell payload")
	}

	draft, err := s.repo.Draft(ctx)
	if err != nil {
		return nil, err
	}
	cell := models.TimetableCell{
		Day:         req.Day,
		TimeSlotID:  req.TimeSlotID,
		SubjectCode: req.SubjectCode,
		SubjectName: req.SubjectName,
		FacultyID:   req.FacultyID,
		FacultyName: req.FacultyName,
		Room:        req.Room,
	}
	if err := workflow.UpsertTimetableCell(draft, cell); err != nil {
		return nil, err
	}
	return s.repo.SaveDraft(ctx, *draft)
}

// DeleteCell clears one draft cell.
func (s *TimetableService) DeleteCell(ctx context.Context, day, slotID string) (*models.TimetableData, error) {
	draft, err := s.repo.Draft(ctx)
	if err != nil {
		return nil, err
	}
	if err := workflow.DeleteTimetableCell(draft, day, slotID); err != nil {
		return nil, err
	}
	return s.repo.SaveDraft(ctx, *draft)
}

// Submit promotes the draft into faculty peer review.
func (s *TimetableService) Submit(ctx context.Context, actor workflow.Actor) (*models.TimetableData, error) {
	draft, err := s.repo.Draft(ctx)
	if err != nil {
		return nil, err
	}
	if err := workflow.SubmitTimetable(draft, actor, time.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.Promote(ctx, *draft); err != nil {
		return nil, err
	}
	s.logger.Info("timetable submitted",
		zap.String("timetable_id", draft.ID),
		zap.String("submitted_by", actor.ID))
	return draft, nil
}

// Get returns a submitted timetable.
func (s *TimetableService) Get(ctx context.Context, id string) (*models.TimetableData, error) {
	return s.repo.Get(ctx, id)
}

// List returns submitted timetables visible to the actor.
func (s *TimetableService) List(ctx context.Context, actor workflow.Actor, statuses ...models.TimetableStatus) ([]models.TimetableData, error) {
	department := ""
	if actor.Role == models.RoleHOD {
		department = actor.Department
	}
	return s.repo.List(ctx, department, statuses...)
}

// ApproveByFaculty records the actor's peer sign-off. The count gate is
// configured at construction time.
func (s *TimetableService) ApproveByFaculty(ctx context.Context, actor workflow.Actor, id, remarks string) (*models.TimetableData, error) {
	if actor.Role != models.RoleFaculty && actor.Role != models.RoleHOD {
		return nil, appErrors.ErrWrongRole
	}
	return s.transition(ctx, id, func(tt *models.TimetableData) error {
		return workflow.ApproveTimetableByFaculty(tt, actor.ID, actor.Name, remarks, s.facultyThreshold, time.Now())
	})
}

// ApproveByHOD finalizes a timetable under HOD review.
func (s *TimetableService) ApproveByHOD(ctx context.Context, actor workflow.Actor, id, remarks string) (*models.TimetableData, error) {
	return s.transition(ctx, id, func(tt *models.TimetableData) error {
		return workflow.ApproveTimetableByHOD(tt, actor, remarks, time.Now())
	})
}

// Reject terminates a timetable under HOD review.
func (s *TimetableService) Reject(ctx context.Context, actor workflow.Actor, id, remarks string) (*models.TimetableData, error) {
	return s.transition(ctx, id, func(tt *models.TimetableData) error {
		return workflow.RejectTimetable(tt, actor, remarks, time.Now())
	})
}

// Slots returns the fixed period sequence used by new drafts.
func (s *TimetableService) Slots() []models.TimeSlot {
	return models.DefaultTimeSlots()
}

func (s *TimetableService) transition(ctx context.Context, id string, apply func(*models.TimetableData) error) (*models.TimetableData, error) {
	tt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(tt); err != nil {
		return nil, err
	}
	if err := s.repo.Replace(ctx, *tt); err != nil {
		return nil, err
	}
	s.logger.Info("timetable transitioned",
		zap.String("timetable_id", tt.ID),
		zap.String("status", string(tt.Status)))
	return tt, nil
}
