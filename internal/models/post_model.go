package models

import "time"

type Post struct {
	ID            string         `db:"id" json:"id"`
	TenantID      string         `db:"tenant_id" json:"tenantId"`
	UserID        string         `db:"user_id" json:"userId"`
	Content       string         `db:"content" json:"content"`
	Platform      string         `db:"platform" json:"platform"`
	Status        string         `db:"status" json:"status"` // draft, scheduled, published, failed
	ScheduledAt   *time.Time     `db:"scheduled_at" json:"scheduledAt"`
	PublishedAt   *time.Time     `db:"published_at" json:"publishedAt"`
	ImageURL      string         `db:"image_url" json:"imageUrl,omitempty"`
	IsAIGenerated bool           `db:"is_ai_generated" json:"isAiGenerated"`
	AIPrompt      string         `db:"ai_prompt" json:"aiPrompt,omitempty"`
	Metadata      map[string]any `db:"metadata" json:"metadata"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updatedAt"`
}

// Clone returns a deep enough copy for callers that mutate the result.
func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}
	c := *p
	if p.ScheduledAt != nil {
		t := *p.ScheduledAt
		c.ScheduledAt = &t
	}
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		c.PublishedAt = &t
	}
	c.Metadata = CopyMetadata(p.Metadata)
	return &c
}

func CopyMetadata(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

const (
	PostStatusDraft     = "draft"
	PostStatusScheduled = "scheduled"
	PostStatusPublished = "published"
	PostStatusFailed    = "failed"
)

const (
	PlatformInstagram = "instagram"
	PlatformTwitter   = "twitter"
	PlatformLinkedIn  = "linkedin"
	PlatformFacebook  = "facebook"
)

var Platforms = []string{PlatformInstagram, PlatformTwitter, PlatformLinkedIn, PlatformFacebook}

func IsValidPlatform(platform string) bool {
	for _, p := range Platforms {
		if p == platform {
			return true
		}
	}
	return false
}

// Metadata keys written by the publish pipeline.
const (
	MetadataError         = "error"
	MetadataPublishResult = "publishResult"
)
