package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/kbrian1237/cemmaBlog-sub002/internal/httpx"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/models"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/service"
)

type UserHandler struct {
	users  *service.UserService
	logger *logrus.Logger
}

func NewUserHandler(users *service.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

func toUserResponses(users []models.User) []models.UserResponse {
	out := make([]models.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToResponse())
	}
	return out
}

// GetProfile handles GET /api/users/:username.
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	user, err := h.users.GetUserByUsername(c.Params("username"))
	if err != nil {
		return serviceError(c, h.logger, err)
	}

	resp := fiber.Map{"user": user.ToResponse()}
	if viewerID, err := httpx.LocalUint(c, "userID"); err == nil && viewerID != user.ID {
		following, err := h.users.IsFollowing(viewerID, user.ID)
		if err == nil {
			resp["is_following"] = following
		}
	}
	return c.JSON(resp)
}

// UpdateProfile handles PATCH /api/users/me.
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Authentication required")
	}

	var input service.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	user, err := h.users.UpdateProfile(userID, input)
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(user.ToResponse())
}

// SearchUsers handles GET /api/users?q=...
func (h *UserHandler) SearchUsers(c *fiber.Ctx) error {
	query := c.Query("q")
	limit := queryInt(c, "limit", 20)

	users, err := h.users.SearchUsers(query, limit)
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"users": toUserResponses(users)})
}

// Follow handles POST /api/users/:userID/follow.
func (h *UserHandler) Follow(c *fiber.Ctx) error {
	followerID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Authentication required")
	}
	followeeID, err := paramUint(c, "userID")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid user id")
	}

	if err := h.users.Follow(followerID, followeeID); err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"following": true})
}

// Unfollow handles DELETE /api/users/:userID/follow.
func (h *UserHandler) Unfollow(c *fiber.Ctx) error {
	followerID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Authentication required")
	}
	followeeID, err := paramUint(c, "userID")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid user id")
	}

	if err := h.users.Unfollow(followerID, followeeID); err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"following": false})
}

// GetFollowers handles GET /api/users/:userID/followers.
func (h *UserHandler) GetFollowers(c *fiber.Ctx) error {
	userID, err := paramUint(c, "userID")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid user id")
	}
	users, err := h.users.GetFollowers(userID)
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"users": toUserResponses(users)})
}

// GetFollowing handles GET /api/users/:userID/following.
func (h *UserHandler) GetFollowing(c *fiber.Ctx) error {
	userID, err := paramUint(c, "userID")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid user id")
	}
	users, err := h.users.GetFollowing(userID)
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"users": toUserResponses(users)})
}
