package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/lib/pq"
	"github.com/maheshrc27/smartflow/internal/models"
)

type TenantRepository interface {
	GetByID(ctx context.Context, id string) (*models.Tenant, error)
	GetByDomain(ctx context.Context, domain string) (*models.Tenant, error)
}

type tenantRepository struct {
	db *sql.DB
}

func NewTenantRepository(db *sql.DB) TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) GetByID(ctx context.Context, id string) (*models.Tenant, error) {
	return r.get(ctx, `SELECT id, name, domain, branding, platforms, created_at, updated_at FROM tenants WHERE id = $1`, id)
}

func (r *tenantRepository) GetByDomain(ctx context.Context, domain string) (*models.Tenant, error) {
	return r.get(ctx, `SELECT id, name, domain, branding, platforms, created_at, updated_at FROM tenants WHERE domain = $1`, domain)
}

func (r *tenantRepository) get(ctx context.Context, query, arg string) (*models.Tenant, error) {
	var tenant models.Tenant
	var branding []byte
	var platforms pq.StringArray

	err := r.db.QueryRowContext(ctx, query, arg).Scan(&tenant.ID, &tenant.Name, &tenant.Domain, &branding,
		&platforms, &tenant.CreatedAt, &tenant.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		slog.Info(err.Error())
		return nil, err
	}

	tenant.Platforms = []string(platforms)
	tenant.Branding = map[string]string{}
	if len(branding) > 0 {
		if err := json.Unmarshal(branding, &tenant.Branding); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
	}
	return &tenant, nil
}
