package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/multipost-api/internal/service"
	"github.com/maheshrc27/multipost-api/internal/transfer"
)

type PostHandler struct {
	s service.PostService
}

func NewPostHandler(service service.PostService) *PostHandler {
	return &PostHandler{s: service}
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	var pc transfer.PostCreation
	if err := c.BodyParser(&pc); err != nil {
		return invalidBody(c)
	}

	post, err := h.s.Create(c.Context(), c.Params("userId"), &pc)
	if err != nil {
		if service.IsValidationError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "Invalid post data",
				"details": err.Error(),
			})
		}
		return respondError(c, "Failed to create post", err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	posts, err := h.s.List(c.Context(), c.Params("userId"))
	if err != nil {
		return respondError(c, "Failed to fetch posts", err)
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	post, err := h.s.Get(c.Context(), c.Params("userId"), c.Params("postId"))
	if err != nil {
		return respondError(c, "Failed to fetch post", err)
	}

	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	if err := h.s.Remove(c.Context(), c.Params("userId"), c.Params("postId")); err != nil {
		return respondError(c, "Failed to delete post", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
