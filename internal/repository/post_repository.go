package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/maheshrc27/smartflow/internal/models"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetByTenant(ctx context.Context, tenantID string) ([]*models.Post, error)
	GetByUser(ctx context.Context, userID string) ([]*models.Post, error)
	GetDuePosts(ctx context.Context, now time.Time) ([]*models.Post, error)
	Update(ctx context.Context, id string, update PostUpdate) (*models.Post, error)
	Remove(ctx context.Context, id string) error
}

// PostUpdate is a partial update. Nil fields are left untouched.
// PublishedAt is only written when the post has none yet. When ExpectStatus
// is set the update only applies if the stored status still matches it.
type PostUpdate struct {
	ExpectStatus     *string
	Content          *string
	Platform         *string
	Status           *string
	ScheduledAt      *time.Time
	ClearScheduledAt bool
	PublishedAt      *time.Time
	ImageURL         *string
	IsAIGenerated    *bool
	AIPrompt         *string
	Metadata         map[string]any
}

const postColumns = `id, tenant_id, user_id, content, platform, status, scheduled_at, published_at,
	image_url, is_ai_generated, ai_prompt, metadata, created_at, updated_at`

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	metadata, err := json.Marshal(nonNilMetadata(post.Metadata))
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}

	query := `
		INSERT INTO posts (id, tenant_id, user_id, content, platform, status, scheduled_at, published_at,
			image_url, is_ai_generated, ai_prompt, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err = r.db.ExecContext(ctx, query,
		post.ID, post.TenantID, post.UserID, post.Content, post.Platform, post.Status,
		nullTime(post.ScheduledAt), nullTime(post.PublishedAt),
		post.ImageURL, post.IsAIGenerated, post.AIPrompt, metadata, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (r *postRepository) GetByTenant(ctx context.Context, tenantID string) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE tenant_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, tenantID)
}

func (r *postRepository) GetByUser(ctx context.Context, userID string) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *postRepository) GetDuePosts(ctx context.Context, now time.Time) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts
		WHERE status = $1 AND scheduled_at IS NOT NULL AND scheduled_at <= $2
		ORDER BY scheduled_at ASC, id ASC`
	return r.list(ctx, query, models.PostStatusScheduled, now)
}

func (r *postRepository) list(ctx context.Context, query string, args ...any) ([]*models.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
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

// Update applies the change in a single UPDATE ... RETURNING statement.
func (r *postRepository) Update(ctx context.Context, id string, update PostUpdate) (*models.Post, error) {
	var sets []string
	var args []any
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Content != nil {
		set("content", *update.Content)
	}
	if update.Platform != nil {
		set("platform", *update.Platform)
	}
	if update.Status != nil {
		set("status", *update.Status)
	}
	if update.ClearScheduledAt {
		sets = append(sets, "scheduled_at = NULL")
	} else if update.ScheduledAt != nil {
		set("scheduled_at", *update.ScheduledAt)
	}
	if update.PublishedAt != nil {
		args = append(args, *update.PublishedAt)
		sets = append(sets, fmt.Sprintf("published_at = COALESCE(published_at, $%d)", len(args)))
	}
	if update.ImageURL != nil {
		set("image_url", *update.ImageURL)
	}
	if update.IsAIGenerated != nil {
		set("is_ai_generated", *update.IsAIGenerated)
	}
	if update.AIPrompt != nil {
		set("ai_prompt", *update.AIPrompt)
	}
	if update.Metadata != nil {
		metadata, err := json.Marshal(update.Metadata)
		if err != nil {
			return nil, fmt.Errorf("encoding metadata: %w", err)
		}
		set("metadata", metadata)
	}
	set("updated_at", time.Now().UTC())

	args = append(args, id)
	where := fmt.Sprintf("id = $%d", len(args))
	if update.ExpectStatus != nil {
		args = append(args, *update.ExpectStatus)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query := fmt.Sprintf(`UPDATE posts SET %s WHERE %s RETURNING %s`,
		strings.Join(sets, ", "), where, postColumns)

	post, err := scanPost(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if update.ExpectStatus != nil {
				return nil, r.statusConflict(ctx, id)
			}
			return nil, ErrNotFound
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

// statusConflict tells a missing post apart from one whose status moved on.
func (r *postRepository) statusConflict(ctx context.Context, id string) error {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrStatusConflict
}

func (r *postRepository) Remove(ctx context.Context, id string) error {
	query := `DELETE FROM posts WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var post models.Post
	var scheduledAt, publishedAt sql.NullTime
	var metadata []byte

	err := row.Scan(&post.ID, &post.TenantID, &post.UserID, &post.Content, &post.Platform, &post.Status,
		&scheduledAt, &publishedAt, &post.ImageURL, &post.IsAIGenerated, &post.AIPrompt, &metadata,
		&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if scheduledAt.Valid {
		t := scheduledAt.Time
		post.ScheduledAt = &t
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		post.PublishedAt = &t
	}
	post.Metadata = map[string]any{}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &post.Metadata); err != nil {
			return nil, fmt.Errorf("decoding metadata: %w", err)
		}
	}
	return &post, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nonNilMetadata(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
