package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/multipost-api/internal/models"
)

// facebookProfileID is the Graph API alias publishing to the token owner's profile.
const facebookProfileID = "me"

// PublishTarget is one concrete recipient of a publish attempt.
type PublishTarget struct {
	Platform models.Platform
	// AccountID is the page id, "me", or the Instagram business account id.
	// X ignores it.
	AccountID   string
	AccessToken string
}

type PublishContent struct {
	Caption   string
	MediaURL  string
	MediaType models.MediaType
	MediaID   string
}

// PlatformAdapter publishes one item to one target and returns the remote post id.
type PlatformAdapter interface {
	Platform() models.Platform
	Publish(ctx context.Context, target *PublishTarget, content *PublishContent) (string, error)
}

type PublisherService interface {
	Publish(ctx context.Context, draft *models.PostDraft, user *models.User) []models.PlatformOutcome
}

type publisherService struct {
	adapters map[models.Platform]PlatformAdapter
}

func NewPublisherService(adapters ...PlatformAdapter) PublisherService {
	s := &publisherService{adapters: make(map[models.Platform]PlatformAdapter, len(adapters))}
	for _, a := range adapters {
		s.adapters[a.Platform()] = a
	}
	return s
}

// Publish expands draft into one outcome per target. Scheduled drafts get one
// scheduled outcome per platform and no network calls. Otherwise targets are
// attempted one after another; a failure is recorded and the loop moves on.
func (s *publisherService) Publish(ctx context.Context, draft *models.PostDraft, user *models.User) []models.PlatformOutcome {
	if draft.ScheduledAt != nil {
		outcomes := make([]models.PlatformOutcome, 0, len(draft.Platforms))
		for _, platform := range draft.Platforms {
			outcomes = append(outcomes, models.PlatformOutcome{
				Platform: platform,
				Status:   models.PostStatusScheduled,
			})
		}
		return outcomes
	}

	content := &PublishContent{
		Caption:   draft.Caption,
		MediaURL:  draft.MediaURI,
		MediaType: draft.MediaType,
		MediaID:   draft.MediaID,
	}

	var outcomes []models.PlatformOutcome
	for _, platform := range draft.Platforms {
		if platform == models.PlatformFacebook && len(draft.FacebookPageIDs) > 0 {
			for _, pageID := range draft.FacebookPageIDs {
				target, err := pageTarget(user, pageID)
				outcomes = append(outcomes, s.attempt(ctx, platform, target, err, content))
			}
			continue
		}

		target, err := platformTarget(user, platform)
		outcomes = append(outcomes, s.attempt(ctx, platform, target, err, content))
	}
	return outcomes
}

func (s *publisherService) attempt(ctx context.Context, platform models.Platform, target *PublishTarget, resolveErr error, content *PublishContent) models.PlatformOutcome {
	if resolveErr != nil {
		return failedOutcome(platform, resolveErr)
	}

	adapter, ok := s.adapters[platform]
	if !ok {
		return failedOutcome(platform, fmt.Errorf("no publisher registered for %s", platform))
	}

	postID, err := adapter.Publish(ctx, target, content)
	if err != nil {
		return failedOutcome(platform, err)
	}
	if postID == "" {
		return failedOutcome(platform, fmt.Errorf("%s returned no post id", platform))
	}

	return models.PlatformOutcome{
		Platform: platform,
		Status:   models.PostStatusSuccess,
		PostID:   postID,
	}
}

func failedOutcome(platform models.Platform, err error) models.PlatformOutcome {
	slog.Info("publish attempt failed", "platform", platform, "error", err)
	return models.PlatformOutcome{
		Platform: platform,
		Status:   models.PostStatusFailed,
		Error:    err.Error(),
	}
}

func pageTarget(user *models.User, pageID string) (*PublishTarget, error) {
	fb := user.Target(models.PlatformFacebook)
	if fb == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotConnected, models.PlatformFacebook)
	}
	page := fb.FindPage(pageID)
	if page == nil {
		return nil, fmt.Errorf("%w: facebook page %s", ErrNotConnected, pageID)
	}
	return &PublishTarget{
		Platform:    models.PlatformFacebook,
		AccountID:   page.ID,
		AccessToken: page.AccessToken,
	}, nil
}

func platformTarget(user *models.User, platform models.Platform) (*PublishTarget, error) {
	t := user.Target(platform)
	if t == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotConnected, platform)
	}

	target := &PublishTarget{
		Platform:    platform,
		AccountID:   t.AccountID,
		AccessToken: t.AccessToken,
	}
	if platform == models.PlatformFacebook {
		target.AccountID = facebookProfileID
	}
	return target, nil
}
