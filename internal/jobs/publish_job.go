package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/maheshrc27/smartflow/internal/models"
	"github.com/maheshrc27/smartflow/internal/publisher"
	"github.com/maheshrc27/smartflow/internal/repository"
)

// ErrScanInProgress is returned by Scan when another scan has not finished yet.
var ErrScanInProgress = errors.New("scan already in progress")

type AnalyticsRecorder interface {
	RecordPublished(ctx context.Context, post *models.Post) error
}

// Outcome describes the terminal state a scan moved a post into.
type Outcome struct {
	PostID     string
	TenantID   string
	Platform   string
	Status     string
	ExternalID string
	Error      string
}

type OutcomeNotifier interface {
	Notify(ctx context.Context, outcome Outcome)
}

type ScanReport struct {
	Due       int
	Published int
	Failed    int
	// Skipped counts posts whose status changed while they were being published.
	Skipped   int
}

type PublishJob struct {
	pr        repository.PostRepository
	analytics AnalyticsRecorder
	publisher publisher.Publisher
	notifier  OutcomeNotifier
	timeout   time.Duration
	now       func() time.Time

	scanning atomic.Bool
}

func NewPublishJob(
	pr repository.PostRepository,
	analytics AnalyticsRecorder,
	pub publisher.Publisher,
	notifier OutcomeNotifier,
	timeout time.Duration) *PublishJob {
	return &PublishJob{
		pr:        pr,
		analytics: analytics,
		publisher: pub,
		notifier:  notifier,
		timeout:   timeout,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Run is the cron entry point.
func (j *PublishJob) Run() {
	report, err := j.Scan(context.Background(), j.now())
	if err != nil {
		if errors.Is(err, ErrScanInProgress) {
			slog.Warn("skipping scheduler tick, previous scan still running")
			return
		}
		slog.Error("scheduled post scan failed", "error", err)
		return
	}
	if report.Due > 0 {
		slog.Info("scheduled post scan finished", "due", report.Due, "published", report.Published, "failed", report.Failed, "skipped", report.Skipped)
	}
}

// Scan publishes every post that is due at now. Posts are processed one at a time
// and a failing post never stops the rest of the scan.
func (j *PublishJob) Scan(ctx context.Context, now time.Time) (*ScanReport, error) {
	if !j.scanning.CompareAndSwap(false, true) {
		return nil, ErrScanInProgress
	}
	defer j.scanning.Store(false)

	posts, err := j.pr.GetDuePosts(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("fetching due posts: %w", err)
	}

	report := &ScanReport{Due: len(posts)}
	for _, post := range posts {
		switch j.processPost(ctx, post) {
		case models.PostStatusPublished:
			report.Published++
		case models.PostStatusFailed:
			report.Failed++
		default:
			report.Skipped++
		}
	}
	return report, nil
}

// processPost returns the status the post ended in, or "" when the post was
// no longer scheduled by the time the result was written.
func (j *PublishJob) processPost(ctx context.Context, post *models.Post) (outcome string) {
	defer func() {
		if r := recover(); r != nil {
			outcome = j.markFailed(ctx, post, fmt.Errorf("unexpected error: %v", r))
		}
	}()

	slog.Info("publishing post", "post_id", post.ID, "platform", post.Platform)

	result, err := j.attempt(ctx, post)
	if err != nil {
		return j.markFailed(ctx, post, err)
	}

	metadata := models.CopyMetadata(post.Metadata)
	delete(metadata, models.MetadataError)
	metadata[models.MetadataPublishResult] = result.AsMetadata()

	expect := models.PostStatusScheduled
	status := models.PostStatusPublished
	publishedAt := j.now()
	updated, err := j.pr.Update(ctx, post.ID, repository.PostUpdate{
		ExpectStatus: &expect,
		Status:       &status,
		PublishedAt:  &publishedAt,
		Metadata:     metadata,
	})
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) || errors.Is(err, repository.ErrNotFound) {
			slog.Warn("post changed during publish attempt, result not recorded",
				"post_id", post.ID, "external_id", result.ExternalID)
			return ""
		}
		return j.markFailed(ctx, post, fmt.Errorf("recording publish result: %w", err))
	}

	j.recordAnalytics(ctx, updated)

	slog.Info("post published", "post_id", post.ID, "platform", post.Platform, "external_id", result.ExternalID)
	j.notify(ctx, Outcome{
		PostID:     post.ID,
		TenantID:   post.TenantID,
		Platform:   post.Platform,
		Status:     models.PostStatusPublished,
		ExternalID: result.ExternalID,
	})
	return models.PostStatusPublished
}

// recordAnalytics runs after the post is committed as published, so a failing
// recorder is only logged.
func (j *PublishJob) recordAnalytics(ctx context.Context, post *models.Post) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("analytics recorder panicked", "post_id", post.ID, "panic", r)
		}
	}()
	if err := j.analytics.RecordPublished(ctx, post); err != nil {
		slog.Error("failed to record analytics", "post_id", post.ID, "error", err)
	}
}

// attempt calls the publisher once. The call runs in its own goroutine so a
// publisher that ignores its context still cannot stall the scan past the timeout.
func (j *PublishJob) attempt(ctx context.Context, post *models.Post) (*publisher.Result, error) {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	type attemptResult struct {
		res *publisher.Result
		err error
	}
	done := make(chan attemptResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- attemptResult{err: fmt.Errorf("publisher panicked: %v", r)}
			}
		}()
		res, err := j.publisher.Publish(ctx, post.Clone())
		if err == nil && res == nil {
			err = errors.New("publisher returned no result")
		}
		done <- attemptResult{res: res, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil && errors.Is(r.err, context.DeadlineExceeded) {
			return nil, j.timeoutError()
		}
		return r.res, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, j.timeoutError()
		}
		return nil, ctx.Err()
	}
}

func (j *PublishJob) timeoutError() error {
	return fmt.Errorf("publish attempt timed out after %s", j.timeout)
}

func (j *PublishJob) markFailed(ctx context.Context, post *models.Post, cause error) string {
	message := cause.Error()
	if message == "" {
		message = "unknown error"
	}
	slog.Error("failed to publish post", "post_id", post.ID, "platform", post.Platform, "error", message)

	metadata := models.CopyMetadata(post.Metadata)
	metadata[models.MetadataError] = message

	expect := models.PostStatusScheduled
	status := models.PostStatusFailed
	_, err := j.pr.Update(ctx, post.ID, repository.PostUpdate{ExpectStatus: &expect, Status: &status, Metadata: metadata})
	if errors.Is(err, repository.ErrStatusConflict) || errors.Is(err, repository.ErrNotFound) {
		slog.Warn("post changed during publish attempt, failure not recorded", "post_id", post.ID)
		return ""
	}
	if err != nil {
		slog.Error("failed to record publish failure", "post_id", post.ID, "error", err)
	}

	j.notify(ctx, Outcome{
		PostID:   post.ID,
		TenantID: post.TenantID,
		Platform: post.Platform,
		Status:   models.PostStatusFailed,
		Error:    message,
	})
	return models.PostStatusFailed
}

func (j *PublishJob) notify(ctx context.Context, outcome Outcome) {
	if j.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Error("outcome notifier panicked", "post_id", outcome.PostID, "panic", r)
		}
	}()
	j.notifier.Notify(ctx, outcome)
}
