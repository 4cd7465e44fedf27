package handlers

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/multipost-api/configs"
	"github.com/maheshrc27/multipost-api/internal/service"
	"github.com/maheshrc27/multipost-api/internal/transfer"
	"github.com/maheshrc27/multipost-api/pkg/utils"
)

const sessionDuration = 30 * 24 * time.Hour

type AuthHandler struct {
	s   service.AuthService
	cfg config.Config
}

func NewAuthHandler(cfg config.Config, service service.AuthService) *AuthHandler {
	return &AuthHandler{s: service, cfg: cfg}
}

func (h *AuthHandler) OAuthConfig(c *fiber.Ctx) error {
	return c.JSON(h.s.Config())
}

func (h *AuthHandler) FacebookToken(c *fiber.Ctx) error {
	var req transfer.FacebookTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	req.UserID = h.linkedUserID(c, req.UserID)

	result, err := h.s.FacebookLogin(c.Context(), &req)
	if err != nil {
		return respondError(c, "OAuth failed", err)
	}

	result.SessionToken = h.sessionToken(result.User.ID)
	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *AuthHandler) XToken(c *fiber.Ctx) error {
	var req transfer.XTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	req.UserID = h.linkedUserID(c, req.UserID)

	result, err := h.s.XLogin(c.Context(), &req)
	if err != nil {
		return respondError(c, "OAuth failed", err)
	}

	result.SessionToken = h.sessionToken(result.User.ID)
	return c.Status(fiber.StatusOK).JSON(result)
}

// linkedUserID returns the user a login may attach its platform to. With
// sessions enabled the caller must hold a session for that same user;
// anything else logs in as the provider derived user.
func (h *AuthHandler) linkedUserID(c *fiber.Ctx, requested string) string {
	if requested == "" || h.cfg.SecretKey == "" {
		return requested
	}

	tokenString, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if !ok {
		slog.Info("ignoring userId without a session", "user_id", requested)
		return ""
	}

	claims, err := utils.ValidateToken(h.cfg.SecretKey, strings.TrimSpace(tokenString))
	if err != nil || claims.UserID != requested {
		slog.Info("ignoring userId not owned by the session", "user_id", requested)
		return ""
	}
	return requested
}

// sessionToken is empty when no secret is configured; the login still succeeds.
func (h *AuthHandler) sessionToken(userID string) string {
	if h.cfg.SecretKey == "" {
		return ""
	}
	token, err := utils.GenerateToken(h.cfg.SecretKey, userID, sessionDuration)
	if err != nil {
		slog.Info("unable to issue session token", "user_id", userID)
		return ""
	}
	return token
}
