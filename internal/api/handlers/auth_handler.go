package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/smartflow/configs"
	"github.com/maheshrc27/smartflow/internal/models"
	"github.com/maheshrc27/smartflow/internal/service"
	"github.com/maheshrc27/smartflow/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const oauthStateCookie = "oauth_state"

type AuthHandler struct {
	s   service.AuthService
	cfg config.Config
}

func NewAuthHandler(cfg config.Config, service service.AuthService) *AuthHandler {
	return &AuthHandler{s: service, cfg: cfg}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var cred transfer.Credentials
	if err := c.BodyParser(&cred); err != nil {
		return badRequest(c, "Invalid request body")
	}

	tenantID := c.Get("X-Tenant-ID", models.DefaultTenantID)
	resp, err := h.s.Register(c.Context(), &cred, tenantID)
	if err != nil {
		return respondError(c, err)
	}

	h.setSessionCookie(c, resp.Token)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var cred transfer.Credentials
	if err := c.BodyParser(&cred); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.s.Login(c.Context(), cred.Email, cred.Password)
	if err != nil {
		return respondError(c, err)
	}

	h.setSessionCookie(c, resp.Token)
	return c.JSON(resp)
}

func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	state, err := gonanoid.New()
	if err != nil {
		return respondError(c, err)
	}

	authURL, err := h.s.GoogleLoginURL(state)
	if err != nil {
		return respondError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		HTTPOnly: true,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
	})
	return c.Redirect(authURL, fiber.StatusTemporaryRedirect)
}

func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	if state := c.Cookies(oauthStateCookie); state == "" || state != c.Query("state") {
		return badRequest(c, "Invalid OAuth state")
	}

	resp, err := h.s.GoogleCallback(c.Context(), c.Query("code"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}

	h.setSessionCookie(c, resp.Token)
	return c.Redirect(h.cfg.FrontendURL, fiber.StatusTemporaryRedirect)
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		HTTPOnly: true,
		Secure:   false,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
		Expires:  time.Now().Add(h.cfg.TokenDuration),
	})
}
