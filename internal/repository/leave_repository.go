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

// LeaveRepository keeps the leave request collection in memory and mirrors
// every mutation to the persistence adapter as one JSON snapshot.
type LeaveRepository struct {
	mu      sync.RWMutex
	store   kvstore.Store
	logger  *zap.Logger
	entries []models.LeaveEntry
}

// NewLeaveRepository loads the collection from the store, falling back to
// the seed data when the key is absent or the snapshot cannot be decoded.
func NewLeaveRepository(ctx context.Context, store kvstore.Store, logger *zap.Logger, seed []models.LeaveEntry) (*LeaveRepository, error) {
	r := &LeaveRepository{store: store, logger: logger}

	data, err := store.Load(ctx, keyLeaveEntries)
	switch {
	case err == kvstore.ErrKeyNotFound:
		r.entries = append([]models.LeaveEntry(nil), seed...)
		if err := r.persist(ctx); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leave entries")
	default:
		if err := json.Unmarshal(data, &r.entries); err != nil {
			logger.Warn("corrupt leave snapshot, reseeding", zap.Error(err))
			r.entries = append([]models.LeaveEntry(nil), seed...)
			if err := r.persist(ctx); err != nil {
				return nil, err
			}
		}
	}

	return r, nil
}

// Create stores a new leave request. The caller sets the initial status
// since it depends on the submitter's role; creation is submission, so both
// timestamps are stamped here.
func (r *LeaveRepository) Create(ctx context.Context, entry *models.LeaveEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.SubmittedAt = now

	r.entries = append(r.entries, *entry)
	return r.persist(ctx)
}

// Get returns a copy of the request with the given id.
func (r *LeaveRepository) Get(ctx context.Context, id string) (*models.LeaveEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.entries {
		if r.entries[i].ID == id {
			entry := r.entries[i]
			return &entry, nil
		}
	}
	return nil, appErrors.ErrNotFound
}

// Replace overwrites the stored request after a workflow transition.
func (r *LeaveRepository) Replace(ctx context.Context, entry models.LeaveEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.entries {
		if r.entries[i].ID == entry.ID {
			r.entries[i] = entry
			return r.persist(ctx)
		}
	}
	return appErrors.ErrNotFound
}

// Remove deletes the request with the given id, idempotently.
func (r *LeaveRepository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.entries {
		if r.entries[i].ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return r.persist(ctx)
		}
	}
	return nil
}

// List returns copies of all requests matching the filter, newest first.
func (r *LeaveRepository) List(ctx context.Context, filter models.LeaveFilter) ([]models.LeaveEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.LeaveEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		if filter.OwnerID != "" && entry.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Department != "" && !models.SameDepartment(filter.Department, entry.Department) {
			continue
		}
		if len(filter.Status) > 0 && !leaveStatusIn(entry.Status, filter.Status) {
			continue
		}
		out = append(out, entry)
	}
	sortNewestFirst(out, func(e models.LeaveEntry) time.Time { return e.CreatedAt })
	return out, nil
}

func (r *LeaveRepository) persist(ctx context.Context) error {
	data, err := json.Marshal(r.entries)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode leave entries")
	}
	if err := r.store.Save(ctx, keyLeaveEntries, data); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist leave entries")
	}
	return nil
}

func leaveStatusIn(s models.LeaveStatus, set []models.LeaveStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
