package models

import "time"

type PostStatus string

const (
	// Pending and Publishing are client-side states; they are never persisted.
	PostStatusPending    PostStatus = "pending"
	PostStatusPublishing PostStatus = "publishing"
	PostStatusScheduled  PostStatus = "scheduled"
	PostStatusSuccess    PostStatus = "success"
	PostStatusFailed     PostStatus = "failed"
)

type PostDraft struct {
	Caption         string     `json:"caption"`
	MediaURI        string     `json:"mediaUri,omitempty"`
	MediaType       MediaType  `json:"mediaType,omitempty"`
	MediaID         string     `json:"mediaId,omitempty"`
	Platforms       []Platform `json:"platforms"`
	FacebookPageIDs []string   `json:"facebookPageIds,omitempty"`
	ScheduledAt     *time.Time `json:"scheduledAt,omitempty"`
}

type PlatformOutcome struct {
	Platform Platform   `json:"platform"`
	Status   PostStatus `json:"status"`
	PostID   string     `json:"postId,omitempty"`
	Error    string     `json:"error,omitempty"`
}

type Post struct {
	PostDraft
	ID               string            `db:"id" json:"id"`
	UserID           string            `db:"user_id" json:"-"`
	CreatedAt        time.Time         `db:"created_at" json:"createdAt"`
	PlatformStatuses []PlatformOutcome `db:"platform_statuses" json:"platformStatuses"`
}
