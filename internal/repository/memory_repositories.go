package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/maheshrc27/smartflow/internal/models"
)

type memoryAnalyticsRepository struct {
	mu      sync.RWMutex
	records map[string]*models.Analytics
}

func NewMemoryAnalyticsRepository() AnalyticsRepository {
	return &memoryAnalyticsRepository{records: make(map[string]*models.Analytics)}
}

func (r *memoryAnalyticsRepository) Create(ctx context.Context, a *models.Analytics) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[a.ID]; ok {
		return ErrDuplicate
	}
	stored := *a
	r.records[a.ID] = &stored
	return nil
}

func (r *memoryAnalyticsRepository) GetByID(ctx context.Context, id string) (*models.Analytics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *a
	return &out, nil
}

func (r *memoryAnalyticsRepository) GetByPostID(ctx context.Context, postID string) ([]*models.Analytics, error) {
	return r.filter(func(a *models.Analytics) bool { return a.PostID == postID }), nil
}

func (r *memoryAnalyticsRepository) GetByTenant(ctx context.Context, tenantID string) ([]*models.Analytics, error) {
	return r.filter(func(a *models.Analytics) bool { return a.TenantID == tenantID }), nil
}

func (r *memoryAnalyticsRepository) filter(keep func(*models.Analytics) bool) []*models.Analytics {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.Analytics
	for _, a := range r.records {
		if keep(a) {
			c := *a
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RecordedAt.Equal(out[j].RecordedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].RecordedAt.Before(out[j].RecordedAt)
	})
	return out
}

func (r *memoryAnalyticsRepository) Update(ctx context.Context, a *models.Analytics) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[a.ID]; !ok {
		return ErrNotFound
	}
	stored := *a
	r.records[a.ID] = &stored
	return nil
}

type memoryPostingHistoryRepository struct {
	mu      sync.RWMutex
	entries []*models.PostingHistory
}

func NewMemoryPostingHistoryRepository() PostingHistoryRepository {
	return &memoryPostingHistoryRepository{}
}

func (r *memoryPostingHistoryRepository) Create(ctx context.Context, ph *models.PostingHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *ph
	r.entries = append(r.entries, &stored)
	return nil
}

func (r *memoryPostingHistoryRepository) GetByPostID(ctx context.Context, postID string) ([]*models.PostingHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.PostingHistory
	for _, ph := range r.entries {
		if ph.PostID == postID {
			c := *ph
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[string]*models.User)}
}

func (r *memoryUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *u
	return &out, nil
}

func (r *memoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			out := *u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicate
		}
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *memoryUserRepository) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	u.GoogleID = user.GoogleID
	u.Name = user.Name
	u.Role = user.Role
	u.UpdatedAt = time.Now().UTC()
	return nil
}

type memoryTenantRepository struct {
	mu      sync.RWMutex
	tenants map[string]*models.Tenant
}

// NewMemoryTenantRepository starts with the default tenant already present.
func NewMemoryTenantRepository() TenantRepository {
	now := time.Now().UTC()
	return &memoryTenantRepository{tenants: map[string]*models.Tenant{
		models.DefaultTenantID: {
			ID:     models.DefaultTenantID,
			Name:   "SmartFlow Systems",
			Domain: "localhost",
			Branding: map[string]string{
				"logo":           "/assets/logo.png",
				"primaryColor":   "#0EA5E9",
				"secondaryColor": "#0284C7",
				"accentColor":    "#0369A1",
			},
			Platforms: append([]string(nil), models.Platforms...),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}}
}

func (r *memoryTenantRepository) GetByID(ctx context.Context, id string) (*models.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tenants[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *t
	return &out, nil
}

func (r *memoryTenantRepository) GetByDomain(ctx context.Context, domain string) (*models.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tenants {
		if t.Domain == domain {
			out := *t
			return &out, nil
		}
	}
	return nil, ErrNotFound
}
