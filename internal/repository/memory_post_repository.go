package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/maheshrc27/smartflow/internal/models"
)

type memoryPostRepository struct {
	mu    sync.RWMutex
	posts map[string]*models.Post
}

// NewMemoryPostRepository keeps posts in a map. Every read returns a copy.
func NewMemoryPostRepository() PostRepository {
	return &memoryPostRepository{posts: make(map[string]*models.Post)}
}

func (r *memoryPostRepository) Create(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[post.ID]; ok {
		return ErrDuplicate
	}
	stored := post.Clone()
	stored.Metadata = nonNilMetadata(stored.Metadata)
	r.posts[post.ID] = stored
	return nil
}

func (r *memoryPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return post.Clone(), nil
}

func (r *memoryPostRepository) GetByTenant(ctx context.Context, tenantID string) ([]*models.Post, error) {
	return r.filter(func(p *models.Post) bool { return p.TenantID == tenantID }, byCreatedDesc), nil
}

func (r *memoryPostRepository) GetByUser(ctx context.Context, userID string) ([]*models.Post, error) {
	return r.filter(func(p *models.Post) bool { return p.UserID == userID }, byCreatedDesc), nil
}

func (r *memoryPostRepository) GetDuePosts(ctx context.Context, now time.Time) ([]*models.Post, error) {
	due := func(p *models.Post) bool {
		return p.Status == models.PostStatusScheduled && p.ScheduledAt != nil && !p.ScheduledAt.After(now)
	}
	return r.filter(due, byScheduledAsc), nil
}

func (r *memoryPostRepository) filter(keep func(*models.Post) bool, less func(a, b *models.Post) bool) []*models.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var posts []*models.Post
	for _, p := range r.posts {
		if keep(p) {
			posts = append(posts, p.Clone())
		}
	}
	sort.Slice(posts, func(i, j int) bool { return less(posts[i], posts[j]) })
	return posts
}

func (r *memoryPostRepository) Update(ctx context.Context, id string, update PostUpdate) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	if update.ExpectStatus != nil && current.Status != *update.ExpectStatus {
		return nil, ErrStatusConflict
	}

	// Build the new version on a copy and swap it in whole.
	post := current.Clone()
	if update.Content != nil {
		post.Content = *update.Content
	}
	if update.Platform != nil {
		post.Platform = *update.Platform
	}
	if update.Status != nil {
		post.Status = *update.Status
	}
	if update.ClearScheduledAt {
		post.ScheduledAt = nil
	} else if update.ScheduledAt != nil {
		t := *update.ScheduledAt
		post.ScheduledAt = &t
	}
	if update.PublishedAt != nil && post.PublishedAt == nil {
		t := *update.PublishedAt
		post.PublishedAt = &t
	}
	if update.ImageURL != nil {
		post.ImageURL = *update.ImageURL
	}
	if update.IsAIGenerated != nil {
		post.IsAIGenerated = *update.IsAIGenerated
	}
	if update.AIPrompt != nil {
		post.AIPrompt = *update.AIPrompt
	}
	if update.Metadata != nil {
		post.Metadata = models.CopyMetadata(update.Metadata)
	}
	post.UpdatedAt = time.Now().UTC()

	r.posts[id] = post
	return post.Clone(), nil
}

func (r *memoryPostRepository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func byCreatedDesc(a, b *models.Post) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID < b.ID
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func byScheduledAsc(a, b *models.Post) bool {
	if a.ScheduledAt.Equal(*b.ScheduledAt) {
		return a.ID < b.ID
	}
	return a.ScheduledAt.Before(*b.ScheduledAt)
}
