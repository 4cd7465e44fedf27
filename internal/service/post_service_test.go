package service

import (
	"context"
	"testing"
	"time"

	"github.com/maheshrc27/multipost-api/internal/models"
	"github.com/maheshrc27/multipost-api/internal/repository"
	"github.com/maheshrc27/multipost-api/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type postFixture struct {
	svc       PostService
	users     repository.UserRepository
	publisher *publisherFixture
}

func newPostFixture(t *testing.T) *postFixture {
	t.Helper()
	users := repository.NewMemoryUserRepository()
	require.NoError(t, users.Save(context.Background(), connectedUser()))

	pf := newPublisherFixture()
	return &postFixture{
		svc:       NewPostService(repository.NewMemoryPostRepository(), users, pf.publisher),
		users:     users,
		publisher: pf,
	}
}

func TestPostCreate_EndToEnd(t *testing.T) {
	f := newPostFixture(t)
	before := time.Now().UTC().Add(-time.Second)

	post, err := f.svc.Create(context.Background(), "fb_1", &transfer.PostCreation{
		Caption:   "Hello",
		Platforms: []string{"instagram", "twitter"},
	})
	require.NoError(t, err)

	require.Len(t, post.PlatformStatuses, 2)
	assert.Equal(t, models.PostStatusSuccess, post.PlatformStatuses[0].Status)
	assert.Equal(t, models.PostStatusSuccess, post.PlatformStatuses[1].Status)
	assert.NotEmpty(t, post.PlatformStatuses[0].PostID)
	assert.NotEmpty(t, post.PlatformStatuses[1].PostID)

	assert.Equal(t, "Hello", post.Caption)
	assert.NotEmpty(t, post.ID)
	assert.True(t, post.CreatedAt.After(before))

	posts, err := f.svc.List(context.Background(), "fb_1")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].ID)
}

func TestPostCreate_PageFanOutCount(t *testing.T) {
	f := newPostFixture(t)

	post, err := f.svc.Create(context.Background(), "fb_1", &transfer.PostCreation{
		Caption:         "Pages",
		Platforms:       []string{"facebook", "twitter"},
		FacebookPageIDs: []string{"p1", "p2"},
	})
	require.NoError(t, err)
	assert.Len(t, post.PlatformStatuses, 3)
}

func TestPostCreate_Scheduled(t *testing.T) {
	f := newPostFixture(t)
	at := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)

	post, err := f.svc.Create(context.Background(), "fb_1", &transfer.PostCreation{
		Caption:         "Later",
		Platforms:       []string{"facebook", "instagram"},
		FacebookPageIDs: []string{"p1", "p2", "p3"},
		ScheduledAt:     at,
	})
	require.NoError(t, err)

	require.Len(t, post.PlatformStatuses, 2)
	for _, o := range post.PlatformStatuses {
		assert.Equal(t, models.PostStatusScheduled, o.Status)
	}
	require.NotNil(t, post.ScheduledAt)
	assert.Zero(t, f.publisher.totalCalls())
}

func TestPostCreate_NewestFirst(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, "fb_1", &transfer.PostCreation{Caption: "one", Platforms: []string{"twitter"}})
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, "fb_1", &transfer.PostCreation{Caption: "two", Platforms: []string{"twitter"}})
	require.NoError(t, err)

	posts, err := f.svc.List(ctx, "fb_1")
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)
}

func TestPostList_Idempotent(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	for _, caption := range []string{"a", "b", "c"} {
		_, err := f.svc.Create(ctx, "fb_1", &transfer.PostCreation{Caption: caption, Platforms: []string{"twitter"}})
		require.NoError(t, err)
	}

	first, err := f.svc.List(ctx, "fb_1")
	require.NoError(t, err)
	second, err := f.svc.List(ctx, "fb_1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPostRemove_UnknownIsNoop(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	_, err := f.svc.Create(ctx, "fb_1", &transfer.PostCreation{Caption: "keep", Platforms: []string{"twitter"}})
	require.NoError(t, err)

	before, err := f.svc.List(ctx, "fb_1")
	require.NoError(t, err)

	require.NoError(t, f.svc.Remove(ctx, "fb_1", "missing"))

	after, err := f.svc.List(ctx, "fb_1")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestPostRemove_And_Get(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	post, err := f.svc.Create(ctx, "fb_1", &transfer.PostCreation{Caption: "gone", Platforms: []string{"twitter"}})
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, "fb_1", post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)

	_, err = f.svc.Get(ctx, "someone_else", post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	require.NoError(t, f.svc.Remove(ctx, "fb_1", post.ID))
	_, err = f.svc.Get(ctx, "fb_1", post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostCreate_UnknownOwnerFailsEveryTarget(t *testing.T) {
	f := newPostFixture(t)

	post, err := f.svc.Create(context.Background(), "nobody", &transfer.PostCreation{
		Caption:   "Hi",
		Platforms: []string{"twitter"},
	})
	require.NoError(t, err)
	require.Len(t, post.PlatformStatuses, 1)
	assert.Equal(t, models.PostStatusFailed, post.PlatformStatuses[0].Status)
	assert.Zero(t, f.publisher.totalCalls())
}

func TestParseDraft_Validation(t *testing.T) {
	tests := []struct {
		name  string
		pc    *transfer.PostCreation
		field string
	}{
		{"nil body", nil, "body"},
		{"blank caption", &transfer.PostCreation{Caption: "   ", Platforms: []string{"twitter"}}, "caption"},
		{"no platforms", &transfer.PostCreation{Caption: "hi"}, "platforms"},
		{"unknown platform", &transfer.PostCreation{Caption: "hi", Platforms: []string{"myspace"}}, "platforms"},
		{"bad media type", &transfer.PostCreation{Caption: "hi", Platforms: []string{"twitter"}, MediaType: "gif"}, "mediaType"},
		{"bad schedule", &transfer.PostCreation{Caption: "hi", Platforms: []string{"twitter"}, ScheduledAt: "tomorrow"}, "scheduledAt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDraft(tt.pc)
			require.Error(t, err)

			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.field, valErr.Field)
		})
	}
}

func TestPostCreate_ValidationNeverPublishes(t *testing.T) {
	f := newPostFixture(t)

	_, err := f.svc.Create(context.Background(), "fb_1", &transfer.PostCreation{Caption: "", Platforms: []string{"twitter"}})
	assert.True(t, IsValidationError(err))
	assert.Zero(t, f.publisher.totalCalls())

	posts, err := f.svc.List(context.Background(), "fb_1")
	require.NoError(t, err)
	assert.Empty(t, posts)
}
