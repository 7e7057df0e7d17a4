package repository

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/cps-portal-api/internal/models"
	appErrors "github.com/noah-isme/cps-portal-api/pkg/errors"
	"github.com/noah-isme/cps-portal-api/pkg/kvstore"
)

// UserRepository keeps portal accounts in memory backed by the persistence
// adapter. Accounts are provisioned from seed data; there is no self-service
// registration.
type UserRepository struct {
	mu    sync.RWMutex
	store kvstore.Store
	users []models.User
}

// NewUserRepository loads accounts from the store, seeding on first run.
func NewUserRepository(ctx context.Context, store kvstore.Store, logger *zap.Logger, seed []models.User) (*UserRepository, error) {
	r := &UserRepository{store: store}

	data, err := store.Load(ctx, keyUsers)
	switch {
	case err == kvstore.ErrKeyNotFound:
		r.users = append([]models.User(nil), seed...)
		if err := r.persist(ctx); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users")
	default:
		if err := json.Unmarshal(data, &r.users); err != nil {
			logger.Warn("corrupt user snapshot, reseeding", zap.Error(err))
			r.users = append([]models.User(nil), seed...)
			if err := r.persist(ctx); err != nil {
				return nil, err
			}
		}
	}

	return r, nil
}

// FindByEmail looks up an account by email, case-insensitively.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.users {
		if strings.EqualFold(r.users[i].Email, email) {
			user := r.users[i]
			return &user, nil
		}
	}
	return nil, appErrors.ErrNotFound
}

// FindByID looks up an account by id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.users {
		if r.users[i].ID == id {
			user := r.users[i]
			return &user, nil
		}
	}
	return nil, appErrors.ErrNotFound
}

// ListByRole returns all active accounts holding the given role.
func (r *UserRepository) ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		if user.Role == role && user.Active {
			out = append(out, user)
		}
	}
	return out, nil
}

// UpdatePassword replaces an account's password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].ID == id {
			r.users[i].PasswordHash = passwordHash
			r.users[i].UpdatedAt = time.Now().UTC()
			return r.persist(ctx)
		}
	}
	return appErrors.ErrNotFound
}

func (r *UserRepository) persist(ctx context.Context) error {
	data, err := json.Marshal(r.users)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode users")
	}
	if err := r.store.Save(ctx, keyUsers, data); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist users")
	}
	return nil
}
