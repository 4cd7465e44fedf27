package handlers

import (
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/multipost-api/internal/service"
)

type MediaHandler struct {
	s service.MediaService
}

func NewMediaHandler(service service.MediaService) *MediaHandler {
	return &MediaHandler{s: service}
}

// Upload accepts a multipart "file" field for the user in the route.
func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	if !h.s.Enabled() {
		return respondError(c, "Media upload is unavailable", service.ErrMediaDisabled)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file selected",
		})
	}

	f, err := fh.Open()
	if err != nil {
		slog.Info(err.Error())
		return respondError(c, "Unable to read file", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return respondError(c, "Unable to read file", err)
	}

	upload, err := h.s.Upload(c.Context(), GetUserID(c), data)
	if err != nil {
		return respondError(c, "Failed to upload media", err)
	}

	return c.Status(fiber.StatusCreated).JSON(upload)
}
