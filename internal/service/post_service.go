package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/maheshrc27/multipost-api/internal/models"
	"github.com/maheshrc27/multipost-api/internal/repository"
	"github.com/maheshrc27/multipost-api/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type PostService interface {
	Create(ctx context.Context, ownerID string, pc *transfer.PostCreation) (*models.Post, error)
	List(ctx context.Context, ownerID string) ([]*models.Post, error)
	Get(ctx context.Context, ownerID, postID string) (*models.Post, error)
	Remove(ctx context.Context, ownerID, postID string) error
}

type postService struct {
	pr        repository.PostRepository
	ur        repository.UserRepository
	publisher PublisherService
	now       func() time.Time
}

func NewPostService(pr repository.PostRepository, ur repository.UserRepository, publisher PublisherService) PostService {
	return &postService{
		pr:        pr,
		ur:        ur,
		publisher: publisher,
		now:       time.Now,
	}
}

// Create fans the draft out to its targets and stores the result. The owner's
// connected targets are read from the user repository; an unknown owner has
// none, so every immediate attempt fails as not connected.
func (s *postService) Create(ctx context.Context, ownerID string, pc *transfer.PostCreation) (*models.Post, error) {
	draft, err := ParseDraft(pc)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	user, _, err := s.ur.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	outcomes := s.publisher.Publish(ctx, draft, user)

	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	post := &models.Post{
		PostDraft:        *draft,
		ID:               id,
		UserID:           ownerID,
		CreatedAt:        s.now().UTC(),
		PlatformStatuses: outcomes,
	}

	if err := s.pr.Prepend(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) List(ctx context.Context, ownerID string) ([]*models.Post, error) {
	return s.pr.ListByOwner(ctx, ownerID)
}

func (s *postService) Get(ctx context.Context, ownerID, postID string) (*models.Post, error) {
	post, err := s.pr.GetByID(ctx, ownerID, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// Remove deletes the post if it exists; an unknown id is not an error.
func (s *postService) Remove(ctx context.Context, ownerID, postID string) error {
	return s.pr.Remove(ctx, ownerID, postID)
}

// ParseDraft validates a create request into a draft.
func ParseDraft(pc *transfer.PostCreation) (*models.PostDraft, error) {
	if pc == nil {
		return nil, NewValidationError("body", "post creation data is nil")
	}
	if strings.TrimSpace(pc.Caption) == "" {
		return nil, NewValidationError("caption", "caption cannot be empty")
	}
	if len(pc.Platforms) == 0 {
		return nil, NewValidationError("platforms", "at least one platform is required")
	}

	draft := &models.PostDraft{
		Caption:         pc.Caption,
		MediaURI:        pc.MediaURI,
		MediaID:         pc.MediaID,
		FacebookPageIDs: pc.FacebookPageIDs,
	}

	for _, p := range pc.Platforms {
		platform, err := models.ParsePlatform(p)
		if err != nil {
			return nil, NewValidationError("platforms", err.Error())
		}
		draft.Platforms = append(draft.Platforms, platform)
	}

	if pc.MediaType != "" {
		mt := models.MediaType(pc.MediaType)
		if !mt.Valid() {
			return nil, NewValidationError("mediaType", fmt.Sprintf("unknown media type %q", pc.MediaType))
		}
		draft.MediaType = mt
	}

	if pc.ScheduledAt != "" {
		t, err := time.Parse(time.RFC3339, pc.ScheduledAt)
		if err != nil {
			return nil, NewValidationError("scheduledAt", "invalid scheduled time format, expected RFC3339")
		}
		t = t.UTC()
		draft.ScheduledAt = &t
	}

	return draft, nil
}
