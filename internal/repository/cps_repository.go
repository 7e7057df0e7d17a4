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

// CPSRepository keeps the CPS entry collection in memory and mirrors every
// mutation to the persistence adapter as one JSON snapshot. Collections are
// small (hundreds of entries per academic year), so the full rewrite per
// mutation is acceptable and keeps the adapter contract trivial.
type CPSRepository struct {
	mu      sync.RWMutex
	store   kvstore.Store
	logger  *zap.Logger
	entries []models.CPSEntry
}

// NewCPSRepository loads the collection from the store, falling back to the
// seed data when the key is absent or the stored snapshot cannot be decoded.
func NewCPSRepository(ctx context.Context, store kvstore.Store, logger *zap.Logger, seed []models.CPSEntry) (*CPSRepository, error) {
	r := &CPSRepository{store: store, logger: logger}

	data, err := store.Load(ctx, keyCPSEntries)
	switch {
	case err == kvstore.ErrKeyNotFound:
		r.entries = append([]models.CPSEntry(nil), seed...)
		if err := r.persist(ctx); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cps entries")
	default:
		if err := json.Unmarshal(data, &r.entries); err != nil {
			logger.Warn("corrupt cps snapshot, reseeding", zap.Error(err))
			r.entries = append([]models.CPSEntry(nil), seed...)
			if err := r.persist(ctx); err != nil {
				return nil, err
			}
		}
	}

	return r, nil
}

// Create assigns identity and timestamps and stores the entry as a draft.
func (r *CPSRepository) Create(ctx context.Context, entry *models.CPSEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.Status = models.CPSStatusDraft
	entry.CreatedAt = time.Now().UTC()

	r.entries = append(r.entries, *entry)
	return r.persist(ctx)
}

// Get returns a copy of the entry with the given id.
func (r *CPSRepository) Get(ctx context.Context, id string) (*models.CPSEntry, error) {
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

// Update merges a typed patch into the stored entry. Status and ownership
// checks belong to the service layer; the repository only merges fields.
func (r *CPSRepository) Update(ctx context.Context, id string, patch models.CPSEntryPatch) (*models.CPSEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.entries {
		if r.entries[i].ID != id {
			continue
		}
		if patch.Activity != nil {
			r.entries[i].Activity = *patch.Activity
		}
		if patch.Category != nil {
			r.entries[i].Category = *patch.Category
		}
		if patch.Credits != nil {
			r.entries[i].Credits = *patch.Credits
		}
		if patch.Evidence != nil {
			r.entries[i].Evidence = *patch.Evidence
		}
		if err := r.persist(ctx); err != nil {
			return nil, err
		}
		entry := r.entries[i]
		return &entry, nil
	}
	return nil, appErrors.ErrNotFound
}

// Replace overwrites the stored entry after a workflow transition.
func (r *CPSRepository) Replace(ctx context.Context, entry models.CPSEntry) error {
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

// Remove deletes the entry with the given id. Removing an absent id is a
// no-op so deletes stay idempotent.
func (r *CPSRepository) Remove(ctx context.Context, id string) error {
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

// List returns copies of all entries matching the filter, newest first.
func (r *CPSRepository) List(ctx context.Context, filter models.CPSFilter) ([]models.CPSEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.CPSEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		if filter.OwnerID != "" && entry.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Department != "" && !models.SameDepartment(filter.Department, entry.Department) {
			continue
		}
		if filter.Category != "" && entry.Category != filter.Category {
			continue
		}
		if len(filter.Status) > 0 && !statusIn(entry.Status, filter.Status) {
			continue
		}
		out = append(out, entry)
	}
	sortNewestFirst(out, func(e models.CPSEntry) time.Time { return e.CreatedAt })
	return out, nil
}

func (r *CPSRepository) persist(ctx context.Context) error {
	data, err := json.Marshal(r.entries)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode cps entries")
	}
	if err := r.store.Save(ctx, keyCPSEntries, data); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist cps entries")
	}
	return nil
}

func statusIn(s models.CPSStatus, set []models.CPSStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
