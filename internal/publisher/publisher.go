// Package publisher performs the act of posting content to an external platform.
package publisher

import (
	"context"
	"time"

	"github.com/maheshrc27/smartflow/internal/models"
)

// Publisher makes a single publication attempt for a post. It is called at most
// once per post per scan; a non-nil error means the attempt failed.
type Publisher interface {
	Publish(ctx context.Context, post *models.Post) (*Result, error)
}

type Result struct {
	ExternalID  string    `json:"postId"`
	Platform    string    `json:"platform"`
	PublishedAt time.Time `json:"publishedAt"`
}

// AsMetadata is the shape stored under the post's publishResult metadata key.
func (r *Result) AsMetadata() map[string]any {
	return map[string]any{
		"success":     true,
		"postId":      r.ExternalID,
		"platform":    r.Platform,
		"publishedAt": r.PublishedAt.UTC().Format(time.RFC3339),
	}
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(ctx context.Context, post *models.Post) (*Result, error)

func (f PublisherFunc) Publish(ctx context.Context, post *models.Post) (*Result, error) {
	return f(ctx, post)
}
