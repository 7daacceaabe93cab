package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/smartflow/internal/service"
)

type UserHandler struct {
	s service.UserService
	t service.TenantService
}

func NewUserHandler(users service.UserService, tenants service.TenantService) *UserHandler {
	return &UserHandler{s: users, t: tenants}
}

func (h *UserHandler) Profile(c *fiber.Ctx) error {
	user, err := h.s.Profile(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (h *UserHandler) Tenant(c *fiber.Ctx) error {
	tenant, err := h.t.Get(c.Context(), GetTenantID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tenant)
}
