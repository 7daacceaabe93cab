package models

import "time"

type User struct {
	ID           string    `db:"id" json:"id"`
	TenantID     string    `db:"tenant_id" json:"tenantId"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	GoogleID     string    `db:"google_id" json:"-"`
	Name         string    `db:"name" json:"name"`
	Role         string    `db:"role" json:"role"` // user, admin, agency
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

const (
	RoleUser   = "user"
	RoleAdmin  = "admin"
	RoleAgency = "agency"
)
