package queue

import (
	"github.com/maheshrc27/smartflow/internal/repository"
)

type Queue struct {
	ph repository.PostingHistoryRepository
}

func NewQueue(ph repository.PostingHistoryRepository) *Queue {
	return &Queue{
		ph: ph,
	}
}

const TaskTypePostOutcome = "post:outcome"

type PostOutcomePayload struct {
	PostID     string `json:"postId"`
	TenantID   string `json:"tenantId"`
	Platform   string `json:"platform"`
	Status     string `json:"status"`
	ExternalID string `json:"externalId,omitempty"`
	Error      string `json:"error,omitempty"`
}
