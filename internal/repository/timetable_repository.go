package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/cps-portal-api/internal/models"
	appErrors "github.com/noah-isme/cps-portal-api/pkg/errors"
	"github.com/noah-isme/cps-portal-api/pkg/kvstore"
)

// TimetableRepository manages two keyspaces: the single timetable draft
// being edited, and the list of submitted timetables moving through peer
// and HOD review. A draft joins the submissions list on submit and the
// draft key is cleared.
type TimetableRepository struct {
	mu          sync.RWMutex
	store       kvstore.Store
	logger      *zap.Logger
	draft       *models.TimetableData
	submissions []models.TimetableData
}

// NewTimetableRepository loads both keyspaces from the store. A missing
// draft key is normal (no draft in progress); a missing submissions key
// falls back to the seed data.
func NewTimetableRepository(ctx context.Context, store kvstore.Store, logger *zap.Logger, seed []models.TimetableData) (*TimetableRepository, error) {
	r := &TimetableRepository{store: store, logger: logger}

	data, err := store.Load(ctx, keyTimetableDraft)
	switch {
	case err == kvstore.ErrKeyNotFound:
		// no draft in progress
	case err != nil:
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable draft")
	default:
		var draft models.TimetableData
		if err := json.Unmarshal(data, &draft); err != nil {
			logger.Warn("corrupt timetable draft, discarding", zap.Error(err))
		} else {
			r.draft = &draft
		}
	}

	data, err = store.Load(ctx, keyTimetableSubmissions)
	switch {
	case err == kvstore.ErrKeyNotFound:
		r.submissions = append([]models.TimetableData(nil), seed...)
		if err := r.persistSubmissions(ctx); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable submissions")
	default:
		if err := json.Unmarshal(data, &r.submissions); err != nil {
			logger.Warn("corrupt timetable snapshot, reseeding", zap.Error(err))
			r.submissions = append([]models.TimetableData(nil), seed...)
			if err := r.persistSubmissions(ctx); err != nil {
				return nil, err
			}
		}
	}

	return r, nil
}

// Draft returns a copy of the draft in progress.
func (r *TimetableRepository) Draft(ctx context.Context) (*models.TimetableData, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.draft == nil {
		return nil, appErrors.ErrNotFound
	}
	draft := *r.draft
	return &draft, nil
}

// SaveDraft stores the draft, assigning an id on first save.
func (r *TimetableRepository) SaveDraft(ctx context.Context, draft models.TimetableData) (*models.TimetableData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if draft.ID == "" {
		draft.ID = uuid.NewString()
	}
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = time.Now().UTC()
	}
	r.draft = &draft

	data, err := json.Marshal(r.draft)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode timetable draft")
	}
	if err := r.store.Save(ctx, keyTimetableDraft, data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist timetable draft")
	}
	out := draft
	return &out, nil
}

// Promote moves the draft into the submissions list and clears the draft
// key. The caller has already run the submit transition on the value.
func (r *TimetableRepository) Promote(ctx context.Context, submitted models.TimetableData) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.draft == nil || r.draft.ID != submitted.ID {
		return appErrors.ErrNotFound
	}

	r.submissions = append(r.submissions, submitted)
	if err := r.persistSubmissions(ctx); err != nil {
		return err
	}

	r.draft = nil
	if err := r.store.Delete(ctx, keyTimetableDraft); err != nil && err != kvstore.ErrKeyNotFound {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear timetable draft")
	}
	return nil
}

// Get returns a copy of the submitted timetable with the given id.
func (r *TimetableRepository) Get(ctx context.Context, id string) (*models.TimetableData, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.submissions {
		if r.submissions[i].ID == id {
			tt := r.submissions[i]
			return &tt, nil
		}
	}
	return nil, appErrors.ErrNotFound
}

// Replace overwrites a submitted timetable after a workflow transition.
func (r *TimetableRepository) Replace(ctx context.Context, tt models.TimetableData) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.submissions {
		if r.submissions[i].ID == tt.ID {
			r.submissions[i] = tt
			return r.persistSubmissions(ctx)
		}
	}
	return appErrors.ErrNotFound
}

// List returns copies of submitted timetables, optionally restricted to a
// set of statuses and a department, newest first.
func (r *TimetableRepository) List(ctx context.Context, department string, statuses ...models.TimetableStatus) ([]models.TimetableData, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.TimetableData, 0, len(r.submissions))
	for _, tt := range r.submissions {
		if department != "" && !models.SameDepartment(department, tt.Department) {
			continue
		}
		if len(statuses) > 0 && !timetableStatusIn(tt.Status, statuses) {
			continue
		}
		out = append(out, tt)
	}
	sortNewestFirst(out, func(t models.TimetableData) time.Time {
		if t.SubmittedAt != nil {
			return *t.SubmittedAt
		}
		return t.CreatedAt
	})
	return out, nil
}

func (r *TimetableRepository) persistSubmissions(ctx context.Context) error {
	data, err := json.Marshal(r.submissions)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode timetable submissions")
	}
	if err := r.store.Save(ctx, keyTimetableSubmissions, data); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist timetable submissions")
	}
	return nil
}

func timetableStatusIn(s models.TimetableStatus, set []models.TimetableStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
