package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/multipost-api/internal/service"
)

type PlatformHandler struct {
	ps service.PlatformService
}

func NewPlatformHandler(ps service.PlatformService) *PlatformHandler {
	return &PlatformHandler{ps: ps}
}

func (h *PlatformHandler) ListPlatforms(c *fiber.Ctx) error {
	targets, err := h.ps.List(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, "Failed to fetch connected platforms", err)
	}

	return c.Status(fiber.StatusOK).JSON(targets)
}

func (h *PlatformHandler) Disconnect(c *fiber.Ctx) error {
	user, err := h.ps.Disconnect(c.Context(), c.Params("id"), c.Params("platform"))
	if err != nil {
		return respondError(c, "Unable to disconnect platform", err)
	}

	return c.Status(fiber.StatusOK).JSON(user)
}
