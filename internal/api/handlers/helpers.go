package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/multipost-api/internal/service"
)

// upstreamMessages names the failed step of a platform call for clients.
var upstreamMessages = map[string]string{
	"token exchange":         "Failed to exchange token",
	"fetch user":             "Failed to fetch user info",
	"create media container": "Failed to create media container",
	"media publish":          "Failed to publish to Instagram",
}

func GetUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}

// respondError maps service errors onto HTTP statuses. fallback is the error
// text for failures the client can do nothing about.
func respondError(c *fiber.Ctx, fallback string, err error) error {
	var (
		cfgErr  *service.ConfigurationError
		valErr  *service.ValidationError
		precErr *service.PreconditionError
	)

	switch {
	case errors.As(err, &cfgErr):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   cfgErr.Error(),
			"message": cfgErr.Message,
		})

	case errors.As(err, &valErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   valErr.Message,
			"details": valErr.Field,
		})

	case errors.As(err, &precErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": precErr.Message,
		})

	case service.IsUpstreamFailure(err):
		msg, ok := upstreamMessages[service.UpstreamOp(err)]
		if !ok {
			msg = fallback
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   msg,
			"details": service.UpstreamDetails(err),
		})

	case errors.Is(err, service.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})

	case errors.Is(err, service.ErrPostNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})

	case errors.Is(err, service.ErrMediaDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, service.ErrUnsupportedMedia):
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{"error": err.Error()})
	}

	slog.Info(err.Error())
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   fallback,
		"details": err.Error(),
	})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid request body",
	})
}
