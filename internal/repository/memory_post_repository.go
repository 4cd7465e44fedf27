package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/maheshrc27/multipost-api/internal/models"
)

// memoryPostRepository keeps posts in a process-local map keyed by owner.
// Posts go in and come out as copies so stored posts never change.
type memoryPostRepository struct {
	mu    sync.RWMutex
	posts map[string][]*models.Post
}

func NewMemoryPostRepository() PostRepository {
	return &memoryPostRepository{posts: make(map[string][]*models.Post)}
}

func (r *memoryPostRepository) Prepend(ctx context.Context, post *models.Post) error {
	stored := clonePost(post)

	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.posts[stored.UserID]
	updated := make([]*models.Post, 0, len(existing)+1)
	updated = append(updated, stored)
	updated = append(updated, existing...)
	r.posts[stored.UserID] = updated
	return nil
}

func (r *memoryPostRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	existing := r.posts[ownerID]
	out := make([]*models.Post, 0, len(existing))
	for _, p := range existing {
		out = append(out, clonePost(p))
	}
	return out, nil
}

func (r *memoryPostRepository) GetByID(ctx context.Context, ownerID, postID string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.posts[ownerID] {
		if p.ID == postID {
			return clonePost(p), nil
		}
	}
	return nil, nil
}

func (r *memoryPostRepository) Remove(ctx context.Context, ownerID, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.posts[ownerID]
	filtered := make([]*models.Post, 0, len(existing))
	for _, p := range existing {
		if p.ID != postID {
			filtered = append(filtered, p)
		}
	}
	r.posts[ownerID] = filtered
	return nil
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.ID = strings.Clone(p.ID)
	c.UserID = strings.Clone(p.UserID)
	if p.Platforms != nil {
		c.Platforms = append([]models.Platform(nil), p.Platforms...)
	}
	if p.FacebookPageIDs != nil {
		c.FacebookPageIDs = append([]string(nil), p.FacebookPageIDs...)
	}
	if p.ScheduledAt != nil {
		at := *p.ScheduledAt
		c.ScheduledAt = &at
	}
	if p.PlatformStatuses != nil {
		c.PlatformStatuses = append([]models.PlatformOutcome(nil), p.PlatformStatuses...)
	}
	return &c
}
