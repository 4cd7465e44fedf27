package job

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/maheshrc27/multipost-api/internal/models"
	"github.com/maheshrc27/multipost-api/internal/repository"
	"github.com/maheshrc27/multipost-api/internal/service"
)

const (
	refreshWindow    = 30 * time.Minute
	concurrencyLimit = 10
)

type TokenRefreshJob struct {
	ur  repository.UserRepository
	fb  service.FacebookService
	x   service.XService
	now func() time.Time
}

func NewTokenRefreshJob(
	ur repository.UserRepository,
	fb service.FacebookService,
	x service.XService) *TokenRefreshJob {
	return &TokenRefreshJob{
		ur:  ur,
		fb:  fb,
		x:   x,
		now: time.Now,
	}
}

// RefreshTokens is the cron entry point.
func (c *TokenRefreshJob) RefreshTokens() {
	c.Run(context.Background())
}

// Run refreshes every token expiring within the refresh window and returns the
// number of users whose credentials changed.
func (c *TokenRefreshJob) Run(ctx context.Context) int {
	deadline := c.now().Add(refreshWindow)

	users, err := c.ur.ListExpiring(ctx, deadline)
	if err != nil {
		slog.Info(err.Error())
		return 0
	}

	var (
		wg        sync.WaitGroup
		refreshed atomic.Int32
	)
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, user := range users {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(user *models.User) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if c.refreshUser(ctx, user, deadline) {
				refreshed.Add(1)
			}
		}(user)
	}

	wg.Wait()
	return int(refreshed.Load())
}

// refreshUser refreshes each expiring target of a ListExpiring snapshot. The
// new tokens are written per target and only land while the target still holds
// the token that was refreshed, so a disconnect or re-login in the meantime wins.
func (c *TokenRefreshJob) refreshUser(ctx context.Context, user *models.User, deadline time.Time) bool {
	updated := false

	for _, t := range user.ConnectedTargets {
		if !t.ExpiresBefore(deadline) {
			continue
		}

		var update repository.TokenUpdate
		switch t.Platform {
		case models.PlatformFacebook:
			token, err := c.fb.RefreshToken(ctx, t.AccessToken)
			if err != nil {
				slog.Info("Unable to refresh tokens for Facebook", "user_id", user.ID, "error", err)
				continue
			}
			update = repository.TokenUpdate{
				AccessToken: token.AccessToken,
				ExpiresAt:   service.GetExpiresAt(token.ExpiresIn),
			}

		case models.PlatformTwitter:
			token, err := c.x.RefreshToken(ctx, t.RefreshToken)
			if err != nil {
				slog.Info("Unable to refresh tokens for X", "user_id", user.ID, "error", err)
				continue
			}
			update = repository.TokenUpdate{
				AccessToken:  token.AccessToken,
				RefreshToken: token.RefreshToken,
				ExpiresAt:    token.Expiry,
			}

		default:
			continue
		}

		ok, err := c.ur.UpdateTokens(ctx, user.ID, t.Platform, t.AccessToken, update)
		if err != nil {
			slog.Info(err.Error())
			continue
		}
		if !ok {
			slog.Info("Target changed during refresh, dropping new token", "user_id", user.ID, "platform", t.Platform)
			continue
		}
		updated = true
	}

	return updated
}
