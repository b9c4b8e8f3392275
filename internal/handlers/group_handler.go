package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/kbrian1237/cemmaBlog-sub002/internal/httpx"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/service"
)

type GroupHandler struct {
	groups *service.GroupService
	logger *logrus.Logger
}

func NewGroupHandler(groups *service.GroupService, logger *logrus.Logger) *GroupHandler {
	return &GroupHandler{groups: groups, logger: logger}
}

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

// CreateGroup handles POST /api/groups.
func (h *GroupHandler) CreateGroup(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Authentication required")
	}

	var req createGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	group, err := h.groups.CreateGroup(req.Name, req.Description, userID, req.IsPublic)
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(group)
}

// GetGroup handles GET /api/groups/:groupID.
func (h *GroupHandler) GetGroup(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "groupID")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid group id")
	}
	group, err := h.groups.GetGroup(groupID)
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(group)
}

// GetMembers handles GET /api/groups/:groupID/members.
func (h *GroupHandler) GetMembers(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "groupID")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid group id")
	}
	members, err := h.groups.GetGroupMembers(groupID)
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"members": toUserResponses(members)})
}

// MyGroups handles GET /api/groups/mine.
func (h *GroupHandler) MyGroups(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Authentication required")
	}
	groups, err := h.groups.GetUserGroups(userID)
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"groups": groups})
}

// SearchGroups handles GET /api/groups?q=...
func (h *GroupHandler) SearchGroups(c *fiber.Ctx) error {
	groups, err := h.groups.SearchPublicGroups(c.Query("q"), queryInt(c, "limit", 20))
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"groups": groups})
}

// JoinGroup handles POST /api/groups/:groupID/join. Public groups only;
// private groups require an admin invite.
func (h *GroupHandler) JoinGroup(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Authentication required")
	}
	groupID, err := paramUint(c, "groupID")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid group id")
	}

	if err := h.groups.JoinGroup(groupID, userID); err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"joined": true})
}

type inviteRequest struct {
	UserID uint `json:"user_id"`
}

// InviteMember handles POST /api/groups/:groupID/invite.
func (h *GroupHandler) InviteMember(c *fiber.Ctx) error {
	adminID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Authentication required")
	}
	groupID, err := paramUint(c, "groupID")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid group id")
	}

	var req inviteRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	if err := h.groups.InviteMember(groupID, adminID, req.UserID); err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"invited": true})
}

// LeaveGroup handles POST /api/groups/:groupID/leave.
func (h *GroupHandler) LeaveGroup(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Authentication required")
	}
	groupID, err := paramUint(c, "groupID")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid group id")
	}

	if err := h.groups.LeaveGroup(groupID, userID); err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"left": true})
}

type markReadRequest struct {
	LastReadMessageID uint `json:"last_read_message_id"`
}

// MarkGroupRead handles POST /api/groups/:groupID/read. The watermark only
// moves forward; a stale client reporting an older id is a no-op.
func (h *GroupHandler) MarkGroupRead(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusUnauthorized, "authentication required")
	}
	groupID, err := paramUint(c, "groupID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusBadRequest, "invalid group id")
	}

	var req markReadRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.groups.MarkGroupRead(groupID, userID, req.LastReadMessageID); err != nil {
		return pollError(c, h.logger, err)
	}
	return httpx.Success(c, nil)
}

// GetReadState handles GET /api/groups/:groupID/read.
func (h *GroupHandler) GetReadState(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusUnauthorized, "authentication required")
	}
	groupID, err := paramUint(c, "groupID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusBadRequest, "invalid group id")
	}

	state, err := h.groups.GetReadState(groupID, userID)
	if err != nil {
		return pollError(c, h.logger, err)
	}
	return httpx.Success(c, fiber.Map{"last_read_message_id": state.LastReadMessageID})
}
