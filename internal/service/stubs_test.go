package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/maheshrc27/multipost-api/internal/models"
)

// stubAdapter records every publish and fails for account ids listed in fail.
type stubAdapter struct {
	platform models.Platform
	fail     map[string]bool

	mu    sync.Mutex
	calls []PublishTarget
}

func newStubAdapter(platform models.Platform, failIDs ...string) *stubAdapter {
	fail := make(map[string]bool, len(failIDs))
	for _, id := range failIDs {
		fail[id] = true
	}
	return &stubAdapter{platform: platform, fail: fail}
}

func (s *stubAdapter) Platform() models.Platform {
	return s.platform
}

func (s *stubAdapter) Publish(ctx context.Context, target *PublishTarget, content *PublishContent) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, *target)
	if s.fail[target.AccountID] {
		return "", errors.New("stubbed upstream failure")
	}
	return fmt.Sprintf("%s-%s-%d", s.platform, target.AccountID, len(s.calls)), nil
}

func (s *stubAdapter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *stubAdapter) accountIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		ids = append(ids, c.AccountID)
	}
	return ids
}

func connectedUser() *models.User {
	return &models.User{
		ID:   "fb_1",
		Name: "Ann",
		ConnectedTargets: []*models.ConnectedTarget{
			{
				Platform:    models.PlatformFacebook,
				Connected:   true,
				AccountID:   "1",
				AccessToken: "user-token",
				Pages: []models.Page{
					{ID: "p1", Name: "One", AccessToken: "t1"},
					{ID: "p2", Name: "Two", AccessToken: "t2"},
					{ID: "p3", Name: "Three", AccessToken: "t3"},
				},
			},
			{
				Platform:     models.PlatformInstagram,
				Connected:    true,
				AccountID:    "ig1",
				LinkedPageID: "p1",
				AccessToken:  "t1",
			},
			{
				Platform:    models.PlatformTwitter,
				Connected:   true,
				AccountID:   "x1",
				AccessToken: "x-token",
			},
		},
	}
}
