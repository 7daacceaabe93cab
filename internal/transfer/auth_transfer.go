package transfer

import "github.com/golang-jwt/jwt/v5"

type CustomClaims struct {
	UserID   string `json:"userId"`
	TenantID string `json:"tenantId"`
	jwt.RegisteredClaims
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type AuthResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}
