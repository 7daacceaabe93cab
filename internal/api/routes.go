package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/smartflow/internal/api/handlers"
	"github.com/maheshrc27/smartflow/internal/api/middleware"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	User      *handlers.UserHandler
	Post      *handlers.PostHandler
	Scheduler *handlers.SchedulerHandler
	Analytics *handlers.AnalyticsHandler
	Content   *handlers.ContentHandler
}

func RegisterRoutes(app *fiber.App, auth *middleware.AuthMiddleware, h Handlers) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/login/google", h.Auth.GoogleLogin)
	app.Get("/login/google/callback", h.Auth.GoogleCallback)
	app.Post("/api/auth/register", h.Auth.Register)
	app.Post("/api/auth/login", h.Auth.Login)

	api := app.Group("/api", auth.AuthMiddleware())

	api.Get("/user/profile", h.User.Profile)
	api.Get("/tenant", h.User.Tenant)

	api.Get("/posts", h.Post.ListPosts)
	api.Post("/posts", h.Post.CreatePost)
	api.Get("/posts/:id", h.Post.GetPost)
	api.Put("/posts/:id", h.Post.UpdatePost)
	api.Delete("/posts/:id", h.Post.RemovePost)
	api.Get("/posts/:id/history", h.Post.PostHistory)

	api.Post("/scheduler/schedule", h.Scheduler.SchedulePost)
	api.Post("/scheduler/cancel/:postId", h.Scheduler.CancelPost)
	api.Get("/scheduler/scheduled", h.Scheduler.ListScheduled)

	api.Post("/ai/generate-content", h.Content.GenerateContent)
	api.Post("/ai/analyze-content", h.Content.AnalyzeContent)
	api.Post("/media/upload", h.Content.UploadMedia)

	api.Get("/analytics/overview", h.Analytics.Overview)
	api.Get("/analytics/platforms", h.Analytics.Platforms)
	api.Get("/analytics/insights", h.Analytics.Insights)
	api.Put("/analytics/:id", h.Analytics.UpdateCounters)
}
