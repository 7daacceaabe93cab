package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/maheshrc27/smartflow/internal/models"
)

type AnalyticsRepository interface {
	Create(ctx context.Context, a *models.Analytics) error
	GetByID(ctx context.Context, id string) (*models.Analytics, error)
	GetByPostID(ctx context.Context, postID string) ([]*models.Analytics, error)
	GetByTenant(ctx context.Context, tenantID string) ([]*models.Analytics, error)
	Update(ctx context.Context, a *models.Analytics) error
}

const analyticsColumns = `id, post_id, tenant_id, platform, impressions, likes, comments, shares, clicks, engagement_rate, recorded_at`

type analyticsRepository struct {
	db *sql.DB
}

func NewAnalyticsRepository(db *sql.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) Create(ctx context.Context, a *models.Analytics) error {
	query := `
		INSERT INTO analytics (` + analyticsColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query, a.ID, a.PostID, a.TenantID, a.Platform,
		a.Impressions, a.Likes, a.Comments, a.Shares, a.Clicks, a.EngagementRate, a.RecordedAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *analyticsRepository) GetByID(ctx context.Context, id string) (*models.Analytics, error) {
	query := `SELECT ` + analyticsColumns + ` FROM analytics WHERE id = $1`
	a, err := scanAnalytics(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		slog.Info(err.Error())
		return nil, err
	}
	return a, nil
}

func (r *analyticsRepository) GetByPostID(ctx context.Context, postID string) ([]*models.Analytics, error) {
	query := `SELECT ` + analyticsColumns + ` FROM analytics WHERE post_id = $1 ORDER BY recorded_at ASC`
	return r.list(ctx, query, postID)
}

func (r *analyticsRepository) GetByTenant(ctx context.Context, tenantID string) ([]*models.Analytics, error) {
	query := `SELECT ` + analyticsColumns + ` FROM analytics WHERE tenant_id = $1 ORDER BY recorded_at ASC`
	return r.list(ctx, query, tenantID)
}

func (r *analyticsRepository) list(ctx context.Context, query string, arg string) ([]*models.Analytics, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var records []*models.Analytics
	for rows.Next() {
		a, err := scanAnalytics(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

func (r *analyticsRepository) Update(ctx context.Context, a *models.Analytics) error {
	query := `
		UPDATE analytics
		SET impressions = $1,
			likes = $2,
			comments = $3,
			shares = $4,
			clicks = $5,
			engagement_rate = $6,
			recorded_at = $7
		WHERE id = $8
	`
	res, err := r.db.ExecContext(ctx, query, a.Impressions, a.Likes, a.Comments, a.Shares, a.Clicks,
		a.EngagementRate, a.RecordedAt, a.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAnalytics(row rowScanner) (*models.Analytics, error) {
	var a models.Analytics
	err := row.Scan(&a.ID, &a.PostID, &a.TenantID, &a.Platform, &a.Impressions, &a.Likes, &a.Comments,
		&a.Shares, &a.Clicks, &a.EngagementRate, &a.RecordedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
