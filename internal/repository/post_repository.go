package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/maheshrc27/multipost-api/internal/models"
)

// PostRepository owns each user's posts, newest first.
type PostRepository interface {
	Prepend(ctx context.Context, post *models.Post) error
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Post, error)
	GetByID(ctx context.Context, ownerID, postID string) (*models.Post, error)
	Remove(ctx context.Context, ownerID, postID string) error
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

var postColumns = []string{
	"id", "user_id", "caption", "media_uri", "media_type", "media_id",
	"platforms", "facebook_page_ids", "scheduled_at", "created_at", "platform_statuses",
}

func (r *postRepository) Prepend(ctx context.Context, post *models.Post) error {
	statuses, err := json.Marshal(post.PlatformStatuses)
	if err != nil {
		return err
	}

	query, args, err := SqBuilder.
		Insert("posts").
		Columns(postColumns...).
		Values(
			post.ID,
			post.UserID,
			post.Caption,
			post.MediaURI,
			string(post.MediaType),
			post.MediaID,
			pq.Array(platformStrings(post.Platforms)),
			pq.Array(post.FacebookPageIDs),
			post.ScheduledAt,
			post.CreatedAt,
			statuses,
		).
		ToSql()
	if err != nil {
		return ErrBadQuery
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Post, error) {
	query, args, err := SqBuilder.
		Select(postColumns...).
		From("posts").
		Where(sq.Eq{"user_id": ownerID}).
		OrderBy("created_at DESC", "seq DESC").
		ToSql()
	if err != nil {
		return nil, ErrBadQuery
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) GetByID(ctx context.Context, ownerID, postID string) (*models.Post, error) {
	query, args, err := SqBuilder.
		Select(postColumns...).
		From("posts").
		Where(sq.Eq{"id": postID, "user_id": ownerID}).
		ToSql()
	if err != nil {
		return nil, ErrBadQuery
	}

	post, err := scanPost(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (r *postRepository) Remove(ctx context.Context, ownerID, postID string) error {
	query, args, err := SqBuilder.
		Delete("posts").
		Where(sq.Eq{"id": postID, "user_id": ownerID}).
		ToSql()
	if err != nil {
		return ErrBadQuery
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var (
		post        models.Post
		mediaType   string
		platforms   []string
		pageIDs     []string
		scheduledAt sql.NullTime
		statuses    []byte
	)

	err := row.Scan(
		&post.ID,
		&post.UserID,
		&post.Caption,
		&post.MediaURI,
		&mediaType,
		&post.MediaID,
		pq.Array(&platforms),
		pq.Array(&pageIDs),
		&scheduledAt,
		&post.CreatedAt,
		&statuses,
	)
	if err != nil {
		return nil, err
	}

	post.MediaType = models.MediaType(mediaType)
	for _, p := range platforms {
		post.Platforms = append(post.Platforms, models.Platform(p))
	}
	post.FacebookPageIDs = pageIDs
	if scheduledAt.Valid {
		t := scheduledAt.Time
		post.ScheduledAt = &t
	}
	if err := json.Unmarshal(statuses, &post.PlatformStatuses); err != nil {
		return nil, err
	}
	return &post, nil
}

func platformStrings(platforms []models.Platform) []string {
	out := make([]string, 0, len(platforms))
	for _, p := range platforms {
		out = append(out, string(p))
	}
	return out
}
