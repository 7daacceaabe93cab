package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/maheshrc27/smartflow/internal/models"
)

func memPost(id, status string, scheduledAt *time.Time) *models.Post {
	now := time.Now().UTC()
	return &models.Post{
		ID:          id,
		TenantID:    models.DefaultTenantID,
		UserID:      "u1",
		Content:     "c",
		Platform:    models.PlatformTwitter,
		Status:      status,
		ScheduledAt: scheduledAt,
		Metadata:    map[string]any{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestMemoryGetDuePosts(t *testing.T) {
	r := NewMemoryPostRepository()
	ctx := context.Background()
	now := time.Now().UTC()
	past := now.Add(-time.Minute)
	earlier := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	for _, p := range []*models.Post{
		memPost("b", models.PostStatusScheduled, &past),
		memPost("a", models.PostStatusScheduled, &earlier),
		memPost("exact", models.PostStatusScheduled, &now),
		memPost("future", models.PostStatusScheduled, &future),
		memPost("draft", models.PostStatusDraft, &past),
		memPost("failed", models.PostStatusFailed, &past),
	} {
		if err := r.Create(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	due, err := r.GetDuePosts(ctx, now)
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, p := range due {
		ids = append(ids, p.ID)
	}
	want := []string{"a", "b", "exact"}
	if len(ids) != len(want) {
		t.Fatalf("due = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("due = %v, want %v", ids, want)
		}
	}
}

func TestMemoryUpdateKeepsFirstPublishedAt(t *testing.T) {
	r := NewMemoryPostRepository()
	ctx := context.Background()
	_ = r.Create(ctx, memPost("p1", models.PostStatusScheduled, nil))

	first := time.Now().UTC().Add(-time.Hour)
	second := time.Now().UTC()
	if _, err := r.Update(ctx, "p1", PostUpdate{PublishedAt: &first}); err != nil {
		t.Fatal(err)
	}
	post, err := r.Update(ctx, "p1", PostUpdate{PublishedAt: &second})
	if err != nil {
		t.Fatal(err)
	}
	if !post.PublishedAt.Equal(first) {
		t.Errorf("publishedAt = %v, want %v", post.PublishedAt, first)
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	r := NewMemoryPostRepository()
	ctx := context.Background()
	_ = r.Create(ctx, memPost("p1", models.PostStatusDraft, nil))

	got, _ := r.GetByID(ctx, "p1")
	got.Status = models.PostStatusPublished
	got.Metadata["x"] = 1

	again, _ := r.GetByID(ctx, "p1")
	if again.Status != models.PostStatusDraft || len(again.Metadata) != 0 {
		t.Errorf("stored post mutated through returned copy: %+v", again)
	}
}

func TestMemoryNotFound(t *testing.T) {
	r := NewMemoryPostRepository()
	ctx := context.Background()

	if _, err := r.GetByID(ctx, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID err = %v", err)
	}
	if _, err := r.Update(ctx, "x", PostUpdate{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update err = %v", err)
	}
	if err := r.Remove(ctx, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove err = %v", err)
	}
}

func TestMemoryUpdateExpectStatus(t *testing.T) {
	r := NewMemoryPostRepository()
	ctx := context.Background()
	when := time.Now().UTC()
	_ = r.Create(ctx, memPost("p1", models.PostStatusPublished, &when))

	scheduled := models.PostStatusScheduled
	draft := models.PostStatusDraft
	_, err := r.Update(ctx, "p1", PostUpdate{ExpectStatus: &scheduled, Status: &draft, ClearScheduledAt: true})
	if !errors.Is(err, ErrStatusConflict) {
		t.Fatalf("err = %v, want ErrStatusConflict", err)
	}
	got, _ := r.GetByID(ctx, "p1")
	if got.Status != models.PostStatusPublished || got.ScheduledAt == nil {
		t.Errorf("post changed despite conflict: status=%q scheduledAt=%v", got.Status, got.ScheduledAt)
	}

	published := models.PostStatusPublished
	if _, err := r.Update(ctx, "p1", PostUpdate{ExpectStatus: &published, Status: &draft}); err != nil {
		t.Errorf("matching status: %v", err)
	}
}
