package service

import (
	"context"
	"log/slog"

	"github.com/maheshrc27/multipost-api/internal/models"
	"github.com/maheshrc27/multipost-api/internal/repository"
)

type UserService interface {
	GetUserInfo(ctx context.Context, id string) (*models.User, error)
	RemoveUser(ctx context.Context, id string) error
}

type userService struct {
	u repository.UserRepository
}

func NewUserService(u repository.UserRepository) UserService {
	return &userService{
		u: u,
	}
}

func (s *userService) GetUserInfo(ctx context.Context, id string) (*models.User, error) {
	user, isExist, err := s.u.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isExist {
		slog.Info(ErrUserNotFound.Error(), "user_id", id)
		return nil, ErrUserNotFound
	}

	return user, nil
}

// RemoveUser forgets the user and every stored credential. Posts are kept.
func (s *userService) RemoveUser(ctx context.Context, id string) error {
	return s.u.Remove(ctx, id)
}
