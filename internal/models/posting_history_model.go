package models

import "time"

type PostingHistory struct {
	ID           string    `db:"id" json:"id"`
	PostID       string    `db:"post_id" json:"postId"`
	TenantID     string    `db:"tenant_id" json:"tenantId"`
	Platform     string    `db:"platform" json:"platform"`
	Status       string    `db:"status" json:"status"`
	ExternalID   string    `db:"external_id" json:"externalId,omitempty"`
	ErrorMessage string    `db:"error_message" json:"errorMessage,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
