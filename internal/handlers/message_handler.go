package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/kbrian1237/cemmaBlog-sub002/internal/cache"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/httpx"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/models"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/render"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/service"
)

const defaultPageSize = 50

// MessageHandler owns the chat endpoints, including the poll protocol the
// chat widget drives: first load fetches the newest window, then the client
// repeats "since" calls with the highest message id it has seen.
type MessageHandler struct {
	messages *service.MessageService
	groups   *service.GroupService
	renderer *render.Renderer
	msgCache *cache.MessageCache
	logger   *logrus.Logger
}

func NewMessageHandler(
	messages *service.MessageService,
	groups *service.GroupService,
	renderer *render.Renderer,
	msgCache *cache.MessageCache,
	logger *logrus.Logger,
) *MessageHandler {
	return &MessageHandler{
		messages: messages,
		groups:   groups,
		renderer: renderer,
		msgCache: msgCache,
		logger:   logger,
	}
}

// toResponses renders the HTML fragment for each message. A render failure
// on one message must not blank the whole page, so the fragment falls back
// to empty and the client shows the raw content field.
func (h *MessageHandler) toResponses(messages []models.Message) []models.MessageResponse {
	out := make([]models.MessageResponse, 0, len(messages))
	for i := range messages {
		m := &messages[i]
		html, err := h.renderer.Message(m.ID, m.Sender.Username, m.CreatedAt, m.Content)
		if err != nil {
			h.logger.Warnf("render message %d: %v", m.ID, err)
			html = ""
		}
		out = append(out, m.ToResponse(html))
	}
	return out
}

// SendMessage handles POST /api/messages.
func (h *MessageHandler) SendMessage(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusUnauthorized, "authentication required")
	}

	var input service.SendDirectInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	message, err := h.messages.SendDirect(userID, input)
	if err != nil {
		return pollError(c, h.logger, err)
	}

	_ = h.msgCache.InvalidateConversation(userID, input.RecipientID)

	responses := h.toResponses([]models.Message{*message})
	return httpx.Success(c, fiber.Map{"message": responses[0]})
}

// SendGroupMessage handles POST /api/groups/:groupID/messages.
func (h *MessageHandler) SendGroupMessage(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusUnauthorized, "authentication required")
	}
	groupID, err := paramUint(c, "groupID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusBadRequest, "invalid group id")
	}

	var input service.SendGroupInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	input.GroupID = groupID

	message, err := h.messages.SendGroup(userID, input)
	if err != nil {
		return pollError(c, h.logger, err)
	}

	_ = h.msgCache.InvalidateGroupConversation(groupID)

	responses := h.toResponses([]models.Message{*message})
	return httpx.Success(c, fiber.Map{"message": responses[0]})
}

// GetMessages handles GET /api/messages/:peerID?limit=&offset=. Offset 0 is
// the newest window in chronological order; larger offsets page back into
// history. Only the newest window is cached.
func (h *MessageHandler) GetMessages(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusUnauthorized, "authentication required")
	}
	peerID, err := paramUint(c, "peerID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusBadRequest, "invalid peer id")
	}
	limit := queryInt(c, "limit", defaultPageSize)
	offset := queryInt(c, "offset", 0)

	firstPage := limit == defaultPageSize && offset == 0
	if firstPage {
		if cached, ok := h.msgCache.GetConversation(userID, peerID); ok {
			return httpx.Success(c, fiber.Map{"messages": h.toResponses(cached)})
		}
	}

	messages, err := h.messages.GetConversationPage(userID, peerID, limit, offset)
	if err != nil {
		return pollError(c, h.logger, err)
	}
	if firstPage {
		_ = h.msgCache.SetConversation(userID, peerID, messages)
	}
	return httpx.Success(c, fiber.Map{"messages": h.toResponses(messages)})
}

// GetMessagesSince handles GET /api/messages/:peerID/since?last_id=N. This is
// the poll read path; it always hits the database so a fresh send is visible
// on the very next tick.
func (h *MessageHandler) GetMessagesSince(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusUnauthorized, "authentication required")
	}
	peerID, err := paramUint(c, "peerID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusBadRequest, "invalid peer id")
	}
	lastID := queryUint(c, "last_id", 0)
	limit := queryInt(c, "limit", defaultPageSize)

	messages, err := h.messages.GetConversationSince(userID, peerID, lastID, limit)
	if err != nil {
		return pollError(c, h.logger, err)
	}

	next := lastID
	if n := len(messages); n > 0 {
		next = messages[n-1].ID
	}
	return httpx.Success(c, fiber.Map{
		"messages": h.toResponses(messages),
		"last_id":  next,
	})
}

// GetGroupMessages handles GET /api/groups/:groupID/messages?limit=&offset=.
func (h *MessageHandler) GetGroupMessages(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusUnauthorized, "authentication required")
	}
	groupID, err := paramUint(c, "groupID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusBadRequest, "invalid group id")
	}
	limit := queryInt(c, "limit", defaultPageSize)
	offset := queryInt(c, "offset", 0)

	firstPage := limit == defaultPageSize && offset == 0
	if firstPage {
		if cached, ok := h.msgCache.GetGroupConversation(groupID); ok {
			// Membership still has to hold even on a cache hit.
			if member, err := h.groups.IsMember(groupID, userID); err == nil && member {
				return httpx.Success(c, fiber.Map{"messages": h.toResponses(cached)})
			}
		}
	}

	messages, err := h.messages.GetGroupPage(userID, groupID, limit, offset)
	if err != nil {
		return pollError(c, h.logger, err)
	}
	if firstPage {
		_ = h.msgCache.SetGroupConversation(groupID, messages)
	}
	return httpx.Success(c, fiber.Map{"messages": h.toResponses(messages)})
}

// GetGroupMessagesSince handles GET /api/groups/:groupID/messages/since.
func (h *MessageHandler) GetGroupMessagesSince(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusUnauthorized, "authentication required")
	}
	groupID, err := paramUint(c, "groupID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusBadRequest, "invalid group id")
	}
	lastID := queryUint(c, "last_id", 0)
	limit := queryInt(c, "limit", defaultPageSize)

	messages, err := h.messages.GetGroupSince(userID, groupID, lastID, limit)
	if err != nil {
		return pollError(c, h.logger, err)
	}

	next := lastID
	if n := len(messages); n > 0 {
		next = messages[n-1].ID
	}
	return httpx.Success(c, fiber.Map{
		"messages": h.toResponses(messages),
		"last_id":  next,
	})
}

// GetLatestMessageID handles GET /api/messages/:peerID/latest. Cheap cursor
// bootstrap for a poll client that doesn't want the backlog.
func (h *MessageHandler) GetLatestMessageID(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusUnauthorized, "authentication required")
	}
	peerID, err := paramUint(c, "peerID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusBadRequest, "invalid peer id")
	}

	id, err := h.messages.LatestDirectMessageID(userID, peerID)
	if err != nil {
		return pollError(c, h.logger, err)
	}
	return httpx.Success(c, fiber.Map{"last_id": id})
}

// GetLatestGroupMessageID handles GET /api/groups/:groupID/messages/latest.
func (h *MessageHandler) GetLatestGroupMessageID(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusUnauthorized, "authentication required")
	}
	groupID, err := paramUint(c, "groupID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusBadRequest, "invalid group id")
	}

	member, err := h.groups.IsMember(groupID, userID)
	if err != nil {
		return pollError(c, h.logger, err)
	}
	if !member {
		return httpx.Fail(c, fiber.StatusForbidden, "not allowed")
	}

	id, err := h.messages.LatestGroupMessageID(groupID)
	if err != nil {
		return pollError(c, h.logger, err)
	}
	return httpx.Success(c, fiber.Map{"last_id": id})
}

// MarkConversationRead handles POST /api/messages/:peerID/read. Idempotent:
// repeating it reports zero updated rows.
func (h *MessageHandler) MarkConversationRead(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusUnauthorized, "authentication required")
	}
	peerID, err := paramUint(c, "peerID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusBadRequest, "invalid peer id")
	}

	updated, err := h.messages.MarkConversationRead(userID, peerID)
	if err != nil {
		return pollError(c, h.logger, err)
	}
	_ = h.msgCache.InvalidateConversation(userID, peerID)
	return httpx.Success(c, fiber.Map{"updated": updated})
}

// GetConversations handles GET /api/conversations.
func (h *MessageHandler) GetConversations(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusUnauthorized, "authentication required")
	}
	limit := queryInt(c, "limit", defaultPageSize)

	rows, err := h.messages.ListConversations(userID, limit)
	if err != nil {
		return pollError(c, h.logger, err)
	}
	return httpx.Success(c, fiber.Map{"conversations": rows})
}

// GetGroupConversations handles GET /api/conversations/groups.
func (h *MessageHandler) GetGroupConversations(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusUnauthorized, "authentication required")
	}
	limit := queryInt(c, "limit", defaultPageSize)

	rows, err := h.messages.ListGroupConversations(userID, limit)
	if err != nil {
		return pollError(c, h.logger, err)
	}
	return httpx.Success(c, fiber.Map{"conversations": rows})
}
