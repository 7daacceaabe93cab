package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/smartflow/internal/models"
	"github.com/maheshrc27/smartflow/internal/repository"
	"github.com/maheshrc27/smartflow/internal/transfer"
)

type PostService interface {
	Create(ctx context.Context, userID, tenantID string, pc *transfer.PostCreation) (*models.Post, error)
	List(ctx context.Context, tenantID string) ([]*models.Post, error)
	Get(ctx context.Context, tenantID, postID string) (*models.Post, error)
	Update(ctx context.Context, tenantID, postID string, pu *transfer.PostUpdate) (*models.Post, error)
	Remove(ctx context.Context, tenantID, postID string) error
	History(ctx context.Context, tenantID, postID string) ([]*models.PostingHistory, error)
}

type postService struct {
	pr repository.PostRepository
	ph repository.PostingHistoryRepository
}

func NewPostService(pr repository.PostRepository, ph repository.PostingHistoryRepository) PostService {
	return &postService{
		pr: pr,
		ph: ph,
	}
}

func (s *postService) Create(ctx context.Context, userID, tenantID string, pc *transfer.PostCreation) (*models.Post, error) {
	if pc == nil {
		err := errors.New("post creation data is nil")
		slog.Error(err.Error())
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if userID == "" || tenantID == "" {
		return nil, fmt.Errorf("%w: user is not valid", ErrUnauthorized)
	}

	content := sanitizeText(pc.Content)
	if content == "" {
		err := fmt.Errorf("%w: content cannot be empty", ErrInvalidInput)
		slog.Info(err.Error())
		return nil, err
	}
	if !models.IsValidPlatform(pc.Platform) {
		err := fmt.Errorf("%w: unsupported platform %q", ErrInvalidInput, pc.Platform)
		slog.Info(err.Error())
		return nil, err
	}

	id, err := newID()
	if err != nil {
		return nil, fmt.Errorf("generating post id: %w", err)
	}

	now := time.Now().UTC()
	post := &models.Post{
		ID:            id,
		TenantID:      tenantID,
		UserID:        userID,
		Content:       content,
		Platform:      pc.Platform,
		Status:        models.PostStatusDraft,
		ImageURL:      pc.ImageURL,
		IsAIGenerated: pc.IsAIGenerated,
		AIPrompt:      sanitizeText(pc.AIPrompt),
		Metadata:      map[string]any{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.pr.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}
	return post, nil
}

func (s *postService) List(ctx context.Context, tenantID string) ([]*models.Post, error) {
	posts, err := s.pr.GetByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts, nil
}

func (s *postService) Get(ctx context.Context, tenantID, postID string) (*models.Post, error) {
	if postID == "" {
		return nil, fmt.Errorf("%w: post id is not valid", ErrInvalidInput)
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("post %s: %w", postID, ErrNotFound)
		}
		return nil, err
	}
	if post.TenantID != tenantID {
		return nil, fmt.Errorf("post %s: %w", postID, ErrNotFound)
	}
	return post, nil
}

// Update edits content fields only. Status and scheduling go through SchedulerService.
func (s *postService) Update(ctx context.Context, tenantID, postID string, pu *transfer.PostUpdate) (*models.Post, error) {
	if pu == nil {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	post, err := s.Get(ctx, tenantID, postID)
	if err != nil {
		return nil, err
	}
	if post.Status == models.PostStatusPublished {
		return nil, fmt.Errorf("%w: published posts cannot be edited", ErrInvalidState)
	}

	var update repository.PostUpdate
	if pu.Content != nil {
		content := sanitizeText(*pu.Content)
		if content == "" {
			return nil, fmt.Errorf("%w: content cannot be empty", ErrInvalidInput)
		}
		update.Content = &content
	}
	if pu.Platform != nil {
		if !models.IsValidPlatform(*pu.Platform) {
			return nil, fmt.Errorf("%w: unsupported platform %q", ErrInvalidInput, *pu.Platform)
		}
		update.Platform = pu.Platform
	}
	if pu.ImageURL != nil {
		update.ImageURL = pu.ImageURL
	}

	updated, err := s.pr.Update(ctx, postID, update)
	if err != nil {
		return nil, fmt.Errorf("error updating post: %w", err)
	}
	return updated, nil
}

func (s *postService) Remove(ctx context.Context, tenantID, postID string) error {
	if _, err := s.Get(ctx, tenantID, postID); err != nil {
		return err
	}

	if err := s.pr.Remove(ctx, postID); err != nil {
		return fmt.Errorf("error removing post: %w", err)
	}
	return nil
}

func (s *postService) History(ctx context.Context, tenantID, postID string) ([]*models.PostingHistory, error) {
	if _, err := s.Get(ctx, tenantID, postID); err != nil {
		return nil, err
	}

	history, err := s.ph.GetByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error getting posting history: %w", err)
	}
	if history == nil {
		history = []*models.PostingHistory{}
	}
	return history, nil
}
