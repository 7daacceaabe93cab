package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/maheshrc27/smartflow/internal/models"
)

var postRowColumns = []string{"id", "tenant_id", "user_id", "content", "platform", "status", "scheduled_at",
	"published_at", "image_url", "is_ai_generated", "ai_prompt", "metadata", "created_at", "updated_at"}

func newMock(t *testing.T) (*postRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &postRepository{db: db}, mock
}

func TestPostgresGetByID(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM posts WHERE id = $1`)).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(postRowColumns).AddRow(
			"p1", "t1", "u1", "hello", "twitter", "scheduled", now, nil,
			"", false, "", []byte(`{"error":"boom"}`), now, now))

	post, err := repo.GetByID(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if post.ScheduledAt == nil || !post.ScheduledAt.Equal(now) {
		t.Errorf("scheduledAt = %v", post.ScheduledAt)
	}
	if post.PublishedAt != nil {
		t.Errorf("publishedAt = %v, want nil", post.PublishedAt)
	}
	if post.Metadata["error"] != "boom" {
		t.Errorf("metadata = %v", post.Metadata)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresGetByIDNotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM posts WHERE id = $1`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(postRowColumns))

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestPostgresGetDuePosts(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`WHERE status = \$1 AND scheduled_at IS NOT NULL AND scheduled_at <= \$2\s+ORDER BY scheduled_at ASC, id ASC`).
		WithArgs(models.PostStatusScheduled, now).
		WillReturnRows(sqlmock.NewRows(postRowColumns).
			AddRow("a", "t1", "u1", "x", "twitter", "scheduled", now.Add(-time.Minute), nil, "", false, "", nil, now, now).
			AddRow("b", "t1", "u1", "y", "facebook", "scheduled", now, nil, "", false, "", []byte(`{}`), now, now))

	posts, err := repo.GetDuePosts(context.Background(), now)
	if err != nil {
		t.Fatalf("GetDuePosts: %v", err)
	}
	if len(posts) != 2 || posts[0].ID != "a" {
		t.Errorf("posts = %v", posts)
	}
	if posts[0].Metadata == nil {
		t.Error("metadata is nil for NULL column")
	}
}

func TestPostgresUpdateBuildsSingleStatement(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()
	status := models.PostStatusPublished

	mock.ExpectQuery(regexp.QuoteMeta(
		`UPDATE posts SET status = $1, published_at = COALESCE(published_at, $2), metadata = $3, updated_at = $4 WHERE id = $5 RETURNING`)).
		WithArgs(status, now, []byte(`{"publishResult":"ok"}`), sqlmock.AnyArg(), "p1").
		WillReturnRows(sqlmock.NewRows(postRowColumns).AddRow(
			"p1", "t1", "u1", "x", "twitter", status, nil, now, "", false, "", []byte(`{"publishResult":"ok"}`), now, now))

	post, err := repo.Update(context.Background(), "p1", PostUpdate{
		Status:      &status,
		PublishedAt: &now,
		Metadata:    map[string]any{"publishResult": "ok"},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if post.Status != status || post.PublishedAt == nil {
		t.Errorf("post = %+v", post)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresUpdateClearsSchedule(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()
	status := models.PostStatusDraft

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE posts SET status = $1, scheduled_at = NULL, updated_at = $2 WHERE id = $3`)).
		WithArgs(status, sqlmock.AnyArg(), "p1").
		WillReturnRows(sqlmock.NewRows(postRowColumns).AddRow(
			"p1", "t1", "u1", "x", "twitter", status, nil, nil, "", false, "", nil, now, now))

	if _, err := repo.Update(context.Background(), "p1", PostUpdate{Status: &status, ClearScheduledAt: true}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresUpdateExpectStatus(t *testing.T) {
	now := time.Now().UTC()
	draft := models.PostStatusDraft
	scheduled := models.PostStatusScheduled
	update := PostUpdate{ExpectStatus: &scheduled, Status: &draft, ClearScheduledAt: true}
	query := regexp.QuoteMeta(`UPDATE posts SET status = $1, scheduled_at = NULL, updated_at = $2 WHERE id = $3 AND status = $4 RETURNING`)
	exists := regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`)

	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{"status matches", func(mock sqlmock.Sqlmock) {
			mock.ExpectQuery(query).
				WithArgs(draft, sqlmock.AnyArg(), "p1", scheduled).
				WillReturnRows(sqlmock.NewRows(postRowColumns).AddRow(
					"p1", "t1", "u1", "x", "twitter", draft, nil, nil, "", false, "", nil, now, now))
		}, nil},
		{"status moved on", func(mock sqlmock.Sqlmock) {
			mock.ExpectQuery(query).
				WithArgs(draft, sqlmock.AnyArg(), "p1", scheduled).
				WillReturnRows(sqlmock.NewRows(postRowColumns))
			mock.ExpectQuery(exists).WithArgs("p1").
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		}, ErrStatusConflict},
		{"post gone", func(mock sqlmock.Sqlmock) {
			mock.ExpectQuery(query).
				WithArgs(draft, sqlmock.AnyArg(), "p1", scheduled).
				WillReturnRows(sqlmock.NewRows(postRowColumns))
			mock.ExpectQuery(exists).WithArgs("p1").
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		}, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMock(t)
			tt.setup(mock)

			_, err := repo.Update(context.Background(), "p1", update)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Update: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestPostgresRemoveMissing(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM posts WHERE id = $1`)).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Remove(context.Background(), "gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
