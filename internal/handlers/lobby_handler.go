package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/kbrian1237/cemmaBlog-sub002/internal/httpx"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/service"
)

type LobbyHandler struct {
	lobby  *service.LobbyService
	logger *logrus.Logger
}

func NewLobbyHandler(lobby *service.LobbyService, logger *logrus.Logger) *LobbyHandler {
	return &LobbyHandler{lobby: lobby, logger: logger}
}

type createSessionRequest struct {
	MaxPlayers int `json:"max_players"`
}

// CreateSession handles POST /api/sessions.
func (h *LobbyHandler) CreateSession(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Authentication required")
	}

	var req createSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	session, err := h.lobby.CreateSession(userID, req.MaxPlayers)
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

// ListSessions handles GET /api/sessions.
func (h *LobbyHandler) ListSessions(c *fiber.Ctx) error {
	sessions, err := h.lobby.ListOpenSessions(queryInt(c, "limit", 20))
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"sessions": sessions})
}

// GetSession handles GET /api/sessions/:sessionID. The lobby page polls this
// to show seats filling up.
func (h *LobbyHandler) GetSession(c *fiber.Ctx) error {
	sessionID, err := paramUint(c, "sessionID")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid session id")
	}
	session, err := h.lobby.GetSession(sessionID)
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(session)
}

// JoinSession handles POST /api/sessions/:sessionID/join.
func (h *LobbyHandler) JoinSession(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Authentication required")
	}
	sessionID, err := paramUint(c, "sessionID")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid session id")
	}

	session, err := h.lobby.JoinSession(sessionID, userID)
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(session)
}

// LeaveSession handles POST /api/sessions/:sessionID/leave.
func (h *LobbyHandler) LeaveSession(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Authentication required")
	}
	sessionID, err := paramUint(c, "sessionID")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid session id")
	}

	if err := h.lobby.LeaveSession(sessionID, userID); err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"left": true})
}

// AdvanceTurn handles POST /api/sessions/:sessionID/advance. Only the player
// whose turn it is may advance.
func (h *LobbyHandler) AdvanceTurn(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Authentication required")
	}
	sessionID, err := paramUint(c, "sessionID")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid session id")
	}

	session, err := h.lobby.AdvanceTurn(sessionID, userID)
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(session)
}
