package service

import (
	"context"
	"log/slog"

	"github.com/maheshrc27/multipost-api/internal/models"
	"github.com/maheshrc27/multipost-api/internal/repository"
)

type PlatformService interface {
	List(ctx context.Context, userID string) ([]*models.ConnectedTarget, error)
	Disconnect(ctx context.Context, userID, platform string) (*models.User, error)
}

type platformService struct {
	u repository.UserRepository
}

func NewPlatformService(u repository.UserRepository) PlatformService {
	return &platformService{
		u: u,
	}
}

func (s *platformService) List(ctx context.Context, userID string) ([]*models.ConnectedTarget, error) {
	user, isExist, err := s.u.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !isExist {
		return nil, ErrUserNotFound
	}
	return user.ConnectedTargets, nil
}

// Disconnect drops the platform from the user. Instagram publishing rides on a
// Facebook page token, so disconnecting facebook drops instagram too.
// Disconnecting a platform that is not connected is a no-op.
func (s *platformService) Disconnect(ctx context.Context, userID, platform string) (*models.User, error) {
	p, err := models.ParsePlatform(platform)
	if err != nil {
		return nil, NewValidationError("platform", err.Error())
	}

	user, isExist, err := s.u.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !isExist {
		return nil, ErrUserNotFound
	}

	removed := user.RemoveTarget(p)
	if p == models.PlatformFacebook {
		removed = user.RemoveTarget(models.PlatformInstagram) || removed
	}
	if !removed {
		return user, nil
	}

	if err := s.u.Save(ctx, user); err != nil {
		return nil, err
	}
	slog.Info("platform disconnected", "user_id", userID, "platform", p)
	return user, nil
}
