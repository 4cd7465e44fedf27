package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/multipost-api/internal/models"
	"github.com/maheshrc27/multipost-api/internal/service"
	"github.com/maheshrc27/multipost-api/internal/transfer"
)

// PublishHandler relays single publish calls for clients holding their own tokens.
type PublishHandler struct {
	fb service.FacebookService
	ig service.InstagramService
	x  service.XService
}

func NewPublishHandler(fb service.FacebookService, ig service.InstagramService, x service.XService) *PublishHandler {
	return &PublishHandler{fb: fb, ig: ig, x: x}
}

func (h *PublishHandler) Facebook(c *fiber.Ctx) error {
	var req transfer.FacebookPublishRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	postID, err := h.fb.Publish(c.Context(),
		&service.PublishTarget{Platform: models.PlatformFacebook, AccountID: req.PageID, AccessToken: req.PageAccessToken},
		&service.PublishContent{Caption: req.Message, MediaURL: req.MediaURL},
	)
	if err != nil {
		return respondError(c, "Failed to publish to Facebook", err)
	}
	return c.JSON(transfer.PublishResult{Success: true, PostID: postID})
}

func (h *PublishHandler) Instagram(c *fiber.Ctx) error {
	var req transfer.InstagramPublishRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	postID, err := h.ig.Publish(c.Context(),
		&service.PublishTarget{Platform: models.PlatformInstagram, AccountID: req.InstagramAccountID, AccessToken: req.PageAccessToken},
		&service.PublishContent{Caption: req.Caption, MediaURL: req.MediaURL, MediaType: models.MediaTypeImage},
	)
	if err != nil {
		return respondError(c, "Failed to publish to Instagram", err)
	}
	return c.JSON(transfer.PublishResult{Success: true, PostID: postID})
}

func (h *PublishHandler) X(c *fiber.Ctx) error {
	var req transfer.XPublishRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	postID, err := h.x.Publish(c.Context(),
		&service.PublishTarget{Platform: models.PlatformTwitter, AccessToken: req.AccessToken},
		&service.PublishContent{Caption: req.Text, MediaID: req.MediaID},
	)
	if err != nil {
		return respondError(c, "Failed to post to X", err)
	}
	return c.JSON(transfer.PublishResult{Success: true, PostID: postID})
}
