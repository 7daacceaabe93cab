package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/smartflow/internal/models"
	"github.com/maheshrc27/smartflow/internal/repository"
)

type UserService interface {
	Profile(ctx context.Context, userID string) (*models.User, error)
}

type userService struct {
	u repository.UserRepository
}

func NewUserService(u repository.UserRepository) UserService {
	return &userService{
		u: u,
	}
}

func (s *userService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.u.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.Info("user not found", "user_id", userID)
			return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("error getting user info: %w", err)
	}
	return user, nil
}

type TenantService interface {
	Get(ctx context.Context, tenantID string) (*models.Tenant, error)
}

type tenantService struct {
	t repository.TenantRepository
}

func NewTenantService(t repository.TenantRepository) TenantService {
	return &tenantService{t: t}
}

func (s *tenantService) Get(ctx context.Context, tenantID string) (*models.Tenant, error) {
	tenant, err := s.t.GetByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("tenant %s: %w", tenantID, err)
	}
	return tenant, nil
}
