package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/smartflow/internal/models"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

func (q *Queue) HandlePostOutcomeTask(ctx context.Context, task *asynq.Task) error {
	var payload PostOutcomePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		// a malformed payload will never succeed
		return fmt.Errorf("decode %s payload: %v: %w", TaskTypePostOutcome, err, asynq.SkipRetry)
	}

	return q.RecordOutcome(ctx, payload)
}

// RecordOutcome appends one posting history entry for a publication outcome.
func (q *Queue) RecordOutcome(ctx context.Context, payload PostOutcomePayload) error {
	if payload.PostID == "" {
		return errors.New("outcome has no post id")
	}

	id, err := gonanoid.New()
	if err != nil {
		return err
	}

	entry := &models.PostingHistory{
		ID:           id,
		PostID:       payload.PostID,
		TenantID:     payload.TenantID,
		Platform:     payload.Platform,
		Status:       payload.Status,
		ExternalID:   payload.ExternalID,
		ErrorMessage: payload.Error,
		CreatedAt:    time.Now().UTC(),
	}
	if err := q.ph.Create(ctx, entry); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
