package models

import "time"

type Tenant struct {
	ID        string            `db:"id" json:"id"`
	Name      string            `db:"name" json:"name"`
	Domain    string            `db:"domain" json:"domain"`
	Branding  map[string]string `db:"branding" json:"branding"`
	Platforms []string          `db:"platforms" json:"platforms"`
	CreatedAt time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time         `db:"updated_at" json:"updatedAt"`
}

const DefaultTenantID = "default-tenant"
