package models

import "time"

type Analytics struct {
	ID             string    `db:"id" json:"id"`
	PostID         string    `db:"post_id" json:"postId"`
	TenantID       string    `db:"tenant_id" json:"tenantId"`
	Platform       string    `db:"platform" json:"platform"`
	Impressions    int64     `db:"impressions" json:"impressions"`
	Likes          int64     `db:"likes" json:"likes"`
	Comments       int64     `db:"comments" json:"comments"`
	Shares         int64     `db:"shares" json:"shares"`
	Clicks         int64     `db:"clicks" json:"clicks"`
	EngagementRate float64   `db:"engagement_rate" json:"engagementRate"`
	RecordedAt     time.Time `db:"recorded_at" json:"recordedAt"`
}

// Engagement is likes + comments + shares; clicks are tracked separately.
func (a *Analytics) Engagement() int64 {
	return a.Likes + a.Comments + a.Shares
}
