package service

import (
	"context"
	"testing"
	"time"

	"github.com/maheshrc27/smartflow/internal/models"
	"github.com/maheshrc27/smartflow/internal/repository"
)

const otherTenant = "other-tenant"

func seedPost(t *testing.T, pr repository.PostRepository, p models.Post) *models.Post {
	t.Helper()
	if p.TenantID == "" {
		p.TenantID = models.DefaultTenantID
	}
	if p.UserID == "" {
		p.UserID = "u1"
	}
	if p.Content == "" {
		p.Content = "hello " + p.ID
	}
	if p.Platform == "" {
		p.Platform = models.PlatformTwitter
	}
	if p.Status == "" {
		p.Status = models.PostStatusDraft
	}
	if p.Metadata == nil {
		p.Metadata = map[string]any{}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.UpdatedAt = p.CreatedAt
	if err := pr.Create(context.Background(), &p); err != nil {
		t.Fatalf("seed post %s: %v", p.ID, err)
	}
	return &p
}

func ptrTime(t time.Time) *time.Time { return &t }
func ptrString(s string) *string     { return &s }
func ptrInt(v int64) *int64          { return &v }
