package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/multipost-api/internal/service"
)

type UserHandler struct {
	s service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{s: service}
}

func (h *UserHandler) GetUserInfo(c *fiber.Ctx) error {
	userInfo, err := h.s.GetUserInfo(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, "Failed to fetch user", err)
	}

	return c.JSON(userInfo)
}

func (h *UserHandler) RemoveUser(c *fiber.Ctx) error {
	if err := h.s.RemoveUser(c.Context(), c.Params("id")); err != nil {
		return respondError(c, "Failed to delete user", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
