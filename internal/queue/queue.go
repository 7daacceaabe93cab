package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
	job "github.com/maheshrc27/smartflow/internal/jobs"
)

// Enqueuer is the subset of *asynq.Client used to submit tasks.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func EnqueueOutcome(ctx context.Context, client Enqueuer, payload PostOutcomePayload) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypePostOutcome, taskPayload)

	_, err = client.EnqueueContext(ctx, task, asynq.MaxRetry(5))
	if err != nil {
		return err
	}

	slog.Info("outcome queued", "post_id", payload.PostID, "platform", payload.Platform, "status", payload.Status)
	return nil
}

// AsynqNotifier hands publication outcomes to the asynq worker.
type AsynqNotifier struct {
	client Enqueuer
}

func NewAsynqNotifier(client Enqueuer) *AsynqNotifier {
	return &AsynqNotifier{client: client}
}

func (n *AsynqNotifier) Notify(ctx context.Context, outcome job.Outcome) {
	if err := EnqueueOutcome(ctx, n.client, payloadFromOutcome(outcome)); err != nil {
		slog.Error("failed to enqueue post outcome", "post_id", outcome.PostID, "error", err)
	}
}

// DirectNotifier records outcomes synchronously when no Redis is configured.
type DirectNotifier struct {
	q *Queue
}

func NewDirectNotifier(q *Queue) *DirectNotifier {
	return &DirectNotifier{q: q}
}

func (n *DirectNotifier) Notify(ctx context.Context, outcome job.Outcome) {
	if err := n.q.RecordOutcome(ctx, payloadFromOutcome(outcome)); err != nil {
		slog.Error("failed to record post outcome", "post_id", outcome.PostID, "error", err)
	}
}

func payloadFromOutcome(o job.Outcome) PostOutcomePayload {
	return PostOutcomePayload{
		PostID:     o.PostID,
		TenantID:   o.TenantID,
		Platform:   o.Platform,
		Status:     o.Status,
		ExternalID: o.ExternalID,
		Error:      o.Error,
	}
}
