package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/kbrian1237/cemmaBlog-sub002/internal/httpx"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/service"
)

const accessCookie = "cb_access"

type AuthHandler struct {
	auth   *service.AuthService
	users  *service.UserService
	logger *logrus.Logger
}

func NewAuthHandler(auth *service.AuthService, users *service.UserService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, logger: logger}
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     accessCookie,
		Value:    token,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input service.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	resp, err := h.auth.Register(input)
	if err != nil {
		return serviceError(c, h.logger, err)
	}

	h.setSessionCookie(c, resp.Token)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input service.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	resp, err := h.auth.Login(input)
	if err != nil {
		if service.IsAuthorization(err) {
			return httpx.Unauthorized(c, "invalid_credentials", "Invalid email or password")
		}
		return serviceError(c, h.logger, err)
	}

	h.setSessionCookie(c, resp.Token)
	return c.JSON(resp)
}

// Logout handles POST /api/auth/logout. Access tokens stay valid until
// expiry; logout only clears the browser cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     accessCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
	return c.JSON(fiber.Map{"message": "logged out"})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Authentication required")
	}
	user, err := h.users.GetUser(userID)
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(user.ToResponse())
}
