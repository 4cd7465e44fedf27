package repository

import (
	"context"
	"sync"
	"time"

	"github.com/maheshrc27/multipost-api/internal/models"
)

type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[string]*models.User)}
}

func (r *memoryUserRepository) GetByID(ctx context.Context, id string) (*models.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, false, nil
	}
	return cloneUser(user), true, nil
}

func (r *memoryUserRepository) Save(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := cloneUser(user)
	if existing, ok := r.users[user.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	r.users[user.ID] = stored
	return nil
}

func (r *memoryUserRepository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users, id)
	return nil
}

func (r *memoryUserRepository) ListExpiring(ctx context.Context, before time.Time) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var users []*models.User
	for _, u := range r.users {
		for _, t := range u.ConnectedTargets {
			if t.ExpiresBefore(before) {
				users = append(users, cloneUser(u))
				break
			}
		}
	}
	return users, nil
}

func (r *memoryUserRepository) UpdateTokens(ctx context.Context, userID string, platform models.Platform, previousAccessToken string, update TokenUpdate) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return false, nil
	}
	target := user.Target(platform)
	if target == nil || target.AccessToken != previousAccessToken {
		return false, nil
	}

	target.AccessToken = update.AccessToken
	if update.RefreshToken != "" {
		target.RefreshToken = update.RefreshToken
	}
	target.TokenExpiresAt = update.ExpiresAt
	user.UpdatedAt = time.Now().UTC()
	return true, nil
}

// cloneUser copies the user deep enough that callers can mutate targets and
// pages without touching the stored value.
func cloneUser(u *models.User) *models.User {
	c := *u
	c.ConnectedTargets = make([]*models.ConnectedTarget, 0, len(u.ConnectedTargets))
	for _, t := range u.ConnectedTargets {
		tc := *t
		if t.Pages != nil {
			tc.Pages = append([]models.Page(nil), t.Pages...)
		}
		c.ConnectedTargets = append(c.ConnectedTargets, &tc)
	}
	return &c
}
