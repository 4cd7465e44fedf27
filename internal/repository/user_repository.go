package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/maheshrc27/multipost-api/internal/models"
	"github.com/maheshrc27/multipost-api/pkg/utils"
)

// TokenUpdate is a refreshed credential for one connected target. An empty
// RefreshToken keeps the stored one.
type TokenUpdate struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// UserRepository stores users together with their connected targets.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, bool, error)
	Save(ctx context.Context, user *models.User) error
	Remove(ctx context.Context, id string) error
	// ListExpiring returns users with at least one token expiring before the deadline.
	ListExpiring(ctx context.Context, before time.Time) ([]*models.User, error)
	// UpdateTokens replaces the credentials of the user's platform target only
	// while it still holds previousAccessToken. It reports whether a row changed.
	UpdateTokens(ctx context.Context, userID string, platform models.Platform, previousAccessToken string, update TokenUpdate) (bool, error)
}

type userRepository struct {
	db  *sql.DB
	key []byte
}

// NewUserRepository returns a postgres backed repository. Tokens are encrypted
// with key when it is non-empty.
func NewUserRepository(db *sql.DB, key []byte) UserRepository {
	return &userRepository{db: db, key: key}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, bool, error) {
	query, args, err := SqBuilder.
		Select("id", "name", "email", "avatar", "created_at", "updated_at").
		From("users").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, false, ErrBadQuery
	}

	var user models.User
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.Name, &user.Email, &user.Avatar, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	targets, err := r.listTargets(ctx, id)
	if err != nil {
		return nil, false, err
	}
	user.ConnectedTargets = targets
	return &user, true, nil
}

func (r *userRepository) listTargets(ctx context.Context, userID string) ([]*models.ConnectedTarget, error) {
	query, args, err := SqBuilder.
		Select("platform", "connected", "username", "profile_picture", "account_id",
			"linked_page_id", "access_token", "refresh_token", "token_expires_at").
		From("connected_targets").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("position").
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

	targets := []*models.ConnectedTarget{}
	for rows.Next() {
		var (
			t            models.ConnectedTarget
			platform     string
			accessToken  string
			refreshToken string
			expiresAt    sql.NullTime
		)
		err := rows.Scan(&platform, &t.Connected, &t.Username, &t.ProfilePicture, &t.AccountID,
			&t.LinkedPageID, &accessToken, &refreshToken, &expiresAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}

		t.Platform = models.Platform(platform)
		if t.AccessToken, err = r.decrypt(accessToken); err != nil {
			return nil, err
		}
		if t.RefreshToken, err = r.decrypt(refreshToken); err != nil {
			return nil, err
		}
		if expiresAt.Valid {
			t.TokenExpiresAt = expiresAt.Time
		}
		targets = append(targets, &t)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	for _, t := range targets {
		if t.Platform != models.PlatformFacebook {
			continue
		}
		pages, err := r.listPages(ctx, userID)
		if err != nil {
			return nil, err
		}
		t.Pages = pages
	}
	return targets, nil
}

func (r *userRepository) listPages(ctx context.Context, userID string) ([]models.Page, error) {
	query, args, err := SqBuilder.
		Select("page_id", "name", "access_token", "picture").
		From("facebook_pages").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("position").
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

	pages := []models.Page{}
	for rows.Next() {
		var p models.Page
		var token string
		if err := rows.Scan(&p.ID, &p.Name, &token, &p.Picture); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		if p.AccessToken, err = r.decrypt(token); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// Save upserts the user and replaces its targets and pages in one transaction.
func (r *userRepository) Save(ctx context.Context, user *models.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	query, args, err := SqBuilder.
		Insert("users").
		Columns("id", "name", "email", "avatar", "created_at", "updated_at").
		Values(user.ID, user.Name, user.Email, user.Avatar, now, now).
		Suffix("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, email = EXCLUDED.email, avatar = EXCLUDED.avatar, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return ErrBadQuery
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		slog.Info(err.Error())
		return err
	}

	for _, table := range []string{"facebook_pages", "connected_targets"} {
		query, args, err := SqBuilder.Delete(table).Where(sq.Eq{"user_id": user.ID}).ToSql()
		if err != nil {
			return ErrBadQuery
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			slog.Info(err.Error())
			return err
		}
	}

	for i, t := range user.ConnectedTargets {
		if err := r.insertTarget(ctx, tx, user.ID, i, t); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *userRepository) insertTarget(ctx context.Context, tx *sql.Tx, userID string, position int, t *models.ConnectedTarget) error {
	accessToken, err := r.encrypt(t.AccessToken)
	if err != nil {
		return err
	}
	refreshToken, err := r.encrypt(t.RefreshToken)
	if err != nil {
		return err
	}

	var expiresAt *time.Time
	if !t.TokenExpiresAt.IsZero() {
		expiresAt = &t.TokenExpiresAt
	}

	query, args, err := SqBuilder.
		Insert("connected_targets").
		Columns("user_id", "platform", "position", "connected", "username", "profile_picture",
			"account_id", "linked_page_id", "access_token", "refresh_token", "token_expires_at").
		Values(userID, string(t.Platform), position, t.Connected, t.Username, t.ProfilePicture,
			t.AccountID, t.LinkedPageID, accessToken, refreshToken, expiresAt).
		ToSql()
	if err != nil {
		return ErrBadQuery
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		slog.Info(err.Error())
		return err
	}

	if len(t.Pages) == 0 {
		return nil
	}

	insert := SqBuilder.
		Insert("facebook_pages").
		Columns("user_id", "page_id", "position", "name", "access_token", "picture")
	for i, p := range t.Pages {
		token, err := r.encrypt(p.AccessToken)
		if err != nil {
			return err
		}
		insert = insert.Values(userID, p.ID, i, p.Name, token, p.Picture)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return ErrBadQuery
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *userRepository) Remove(ctx context.Context, id string) error {
	query, args, err := SqBuilder.Delete("users").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return ErrBadQuery
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *userRepository) ListExpiring(ctx context.Context, before time.Time) ([]*models.User, error) {
	query, args, err := SqBuilder.
		Select("DISTINCT user_id").
		From("connected_targets").
		Where(sq.And{
			sq.NotEq{"token_expires_at": nil},
			sq.Lt{"token_expires_at": before},
		}).
		ToSql()
	if err != nil {
		return nil, ErrBadQuery
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			slog.Info(err.Error())
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		user, found, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if found {
			users = append(users, user)
		}
	}
	return users, nil
}

func (r *userRepository) UpdateTokens(ctx context.Context, userID string, platform models.Platform, previousAccessToken string, update TokenUpdate) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	defer tx.Rollback()

	where := sq.Eq{"user_id": userID, "platform": string(platform)}
	query, args, err := SqBuilder.
		Select("access_token").
		From("connected_targets").
		Where(where).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return false, ErrBadQuery
	}

	var stored string
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&stored); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}
	current, err := r.decrypt(stored)
	if err != nil {
		return false, err
	}
	if current != previousAccessToken {
		return false, nil
	}

	accessToken, err := r.encrypt(update.AccessToken)
	if err != nil {
		return false, err
	}
	set := SqBuilder.
		Update("connected_targets").
		Set("access_token", accessToken).
		Where(where)
	if update.RefreshToken != "" {
		refreshToken, err := r.encrypt(update.RefreshToken)
		if err != nil {
			return false, err
		}
		set = set.Set("refresh_token", refreshToken)
	}
	if update.ExpiresAt.IsZero() {
		set = set.Set("token_expires_at", nil)
	} else {
		set = set.Set("token_expires_at", update.ExpiresAt)
	}

	query, args, err = set.ToSql()
	if err != nil {
		return false, ErrBadQuery
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		slog.Info(err.Error())
		return false, err
	}

	query, args, err = SqBuilder.
		Update("users").
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return false, ErrBadQuery
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		slog.Info(err.Error())
		return false, err
	}

	if err := tx.Commit(); err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return true, nil
}

func (r *userRepository) encrypt(token string) (string, error) {
	if token == "" || len(r.key) == 0 {
		return token, nil
	}
	return utils.Encrypt([]byte(token), r.key)
}

func (r *userRepository) decrypt(token string) (string, error) {
	if token == "" || len(r.key) == 0 {
		return token, nil
	}
	return utils.Decrypt(token, r.key)
}
