package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/maheshrc27/smartflow/internal/models"
	"github.com/maheshrc27/smartflow/internal/repository"
)

// SchedulerService moves posts in and out of the scheduled state. The publish job
// takes over once a post is due.
type SchedulerService interface {
	Schedule(ctx context.Context, tenantID, postID string, scheduledAt time.Time) (*models.Post, error)
	Cancel(ctx context.Context, tenantID, postID string) (*models.Post, error)
	ListScheduled(ctx context.Context, tenantID string) ([]*models.Post, error)
}

type schedulerService struct {
	pr repository.PostRepository
}

func NewSchedulerService(pr repository.PostRepository) SchedulerService {
	return &schedulerService{pr: pr}
}

func (s *schedulerService) Schedule(ctx context.Context, tenantID, postID string, scheduledAt time.Time) (*models.Post, error) {
	if postID == "" {
		return nil, fmt.Errorf("%w: post id is required", ErrInvalidInput)
	}
	if scheduledAt.IsZero() {
		return nil, fmt.Errorf("%w: scheduled time is required", ErrInvalidInput)
	}

	post, err := s.tenantPost(ctx, tenantID, postID)
	if err != nil {
		return nil, err
	}

	scheduledAt = scheduledAt.UTC()
	if scheduledAt.Before(time.Now()) {
		slog.Warn("post scheduled in the past, it will publish on the next scan", "post_id", postID, "scheduled_at", scheduledAt)
	}

	// Re-scheduling drops the error left by an earlier failed attempt.
	metadata := models.CopyMetadata(post.Metadata)
	delete(metadata, models.MetadataError)

	status := models.PostStatusScheduled
	updated, err := s.pr.Update(ctx, postID, repository.PostUpdate{
		ExpectStatus: &post.Status,
		Status:       &status,
		ScheduledAt:  &scheduledAt,
		Metadata:     metadata,
	})
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, fmt.Errorf("%w: post %s changed while scheduling, retry", ErrInvalidState, postID)
		}
		return nil, fmt.Errorf("scheduling post: %w", err)
	}

	slog.Info("post scheduled", "post_id", postID, "scheduled_at", scheduledAt.Format(time.RFC3339))
	return updated, nil
}

func (s *schedulerService) Cancel(ctx context.Context, tenantID, postID string) (*models.Post, error) {
	if postID == "" {
		return nil, fmt.Errorf("%w: post id is required", ErrInvalidInput)
	}

	post, err := s.tenantPost(ctx, tenantID, postID)
	if err != nil {
		return nil, err
	}

	if post.Status != models.PostStatusScheduled {
		err = fmt.Errorf("%w: post %s is %s, not scheduled", ErrInvalidState, postID, post.Status)
		slog.Info(err.Error())
		return nil, err
	}

	// The status check is repeated inside the update so a scan that publishes
	// the post in between wins.
	expect := models.PostStatusScheduled
	status := models.PostStatusDraft
	updated, err := s.pr.Update(ctx, postID, repository.PostUpdate{
		ExpectStatus:     &expect,
		Status:           &status,
		ClearScheduledAt: true,
	})
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, fmt.Errorf("%w: post %s is no longer scheduled", ErrInvalidState, postID)
		}
		return nil, fmt.Errorf("cancelling post: %w", err)
	}

	slog.Info("scheduled post cancelled", "post_id", postID)
	return updated, nil
}

func (s *schedulerService) ListScheduled(ctx context.Context, tenantID string) ([]*models.Post, error) {
	posts, err := s.pr.GetByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	scheduled := make([]*models.Post, 0, len(posts))
	for _, p := range posts {
		if p.Status == models.PostStatusScheduled && p.ScheduledAt != nil {
			scheduled = append(scheduled, p)
		}
	}
	sort.Slice(scheduled, func(i, j int) bool {
		return scheduled[i].ScheduledAt.Before(*scheduled[j].ScheduledAt)
	})
	return scheduled, nil
}

// tenantPost hides posts owned by other tenants behind ErrNotFound.
func (s *schedulerService) tenantPost(ctx context.Context, tenantID, postID string) (*models.Post, error) {
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("post %s: %w", postID, ErrNotFound)
		}
		return nil, err
	}
	if tenantID != "" && post.TenantID != tenantID {
		return nil, fmt.Errorf("post %s: %w", postID, ErrNotFound)
	}
	return post, nil
}
