package models

import (
	"time"
)

// Page is a Facebook Page the user administers. The page token is only
// exposed through the OAuth exchange response, never on read endpoints.
type Page struct {
	ID          string `db:"page_id" json:"id"`
	Name        string `db:"name" json:"name"`
	AccessToken string `db:"access_token" json:"-"`
	Picture     string `db:"picture" json:"picture,omitempty"`
}

// ConnectedTarget is the user's authorization to publish to one platform.
type ConnectedTarget struct {
	Platform       Platform  `db:"platform" json:"platform"`
	Connected      bool      `db:"connected" json:"connected"`
	Username       string    `db:"username" json:"username,omitempty"`
	ProfilePicture string    `db:"profile_picture" json:"profilePicture,omitempty"`
	Pages          []Page    `json:"pages,omitempty"`
	AccountID      string    `db:"account_id" json:"-"`
	LinkedPageID   string    `db:"linked_page_id" json:"-"`
	AccessToken    string    `db:"access_token" json:"-"`
	RefreshToken   string    `db:"refresh_token" json:"-"`
	TokenExpiresAt time.Time `db:"token_expires_at" json:"-"`
}

// FindPage returns the page with the given id, or nil.
func (t *ConnectedTarget) FindPage(pageID string) *Page {
	for i := range t.Pages {
		if t.Pages[i].ID == pageID {
			return &t.Pages[i]
		}
	}
	return nil
}

func (t *ConnectedTarget) ExpiresBefore(deadline time.Time) bool {
	return !t.TokenExpiresAt.IsZero() && t.TokenExpiresAt.Before(deadline)
}
