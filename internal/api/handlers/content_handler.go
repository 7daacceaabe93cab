package handlers

import (
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/smartflow/internal/service"
	"github.com/maheshrc27/smartflow/internal/transfer"
)

const maxUploadSize = 50 * 1024 * 1024

type ContentHandler struct {
	ai    service.AIContentService
	media service.MediaService
}

// NewContentHandler accepts a nil AI service; the AI routes then answer 503.
func NewContentHandler(ai service.AIContentService, media service.MediaService) *ContentHandler {
	return &ContentHandler{ai: ai, media: media}
}

func (h *ContentHandler) GenerateContent(c *fiber.Ctx) error {
	if h.ai == nil {
		return aiUnavailable(c)
	}

	var req transfer.ContentGenerationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	content, err := h.ai.Generate(c.Context(), GetTenantID(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(content)
}

func (h *ContentHandler) AnalyzeContent(c *fiber.Ctx) error {
	if h.ai == nil {
		return aiUnavailable(c)
	}

	var req transfer.ContentAnalysisRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	analysis, err := h.ai.Analyze(c.Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(analysis)
}

func (h *ContentHandler) UploadMedia(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "No file uploaded")
	}
	if fileHeader.Size > maxUploadSize {
		return badRequest(c, "File is too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		slog.Info(err.Error())
		return badRequest(c, "Unable to read file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Info(err.Error())
		return badRequest(c, "Unable to read file")
	}

	url, err := h.media.Upload(c.Context(), GetTenantID(c), data)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"url": url,
	})
}

func aiUnavailable(c *fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": "AI content generation is not configured",
	})
}
