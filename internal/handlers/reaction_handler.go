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

// ReactionHandler owns reactions and comments. Both speak the optimistic
// envelope: the client flips its UI immediately and reconciles against the
// authoritative counts returned here.
type ReactionHandler struct {
	reactions *service.ReactionService
	renderer  *render.Renderer
	feedCache *cache.FeedCache
	logger    *logrus.Logger
}

func NewReactionHandler(
	reactions *service.ReactionService,
	renderer *render.Renderer,
	feedCache *cache.FeedCache,
	logger *logrus.Logger,
) *ReactionHandler {
	return &ReactionHandler{
		reactions: reactions,
		renderer:  renderer,
		feedCache: feedCache,
		logger:    logger,
	}
}

type reactRequest struct {
	Type string `json:"type"`
}

// React handles POST /api/posts/:postID/reactions. Reacting again with a
// different type replaces the previous reaction; same type is a no-op.
func (h *ReactionHandler) React(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusUnauthorized, "authentication required")
	}
	postID, err := paramUint(c, "postID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusBadRequest, "invalid post id")
	}

	var req reactRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	counts, err := h.reactions.React(postID, userID, models.ReactionType(req.Type))
	if err != nil {
		return pollError(c, h.logger, err)
	}

	_ = h.feedCache.InvalidateCounts(postID)
	return httpx.Success(c, fiber.Map{"counts": counts})
}

// Unreact handles DELETE /api/posts/:postID/reactions. Idempotent.
func (h *ReactionHandler) Unreact(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusUnauthorized, "authentication required")
	}
	postID, err := paramUint(c, "postID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusBadRequest, "invalid post id")
	}

	counts, err := h.reactions.Unreact(postID, userID)
	if err != nil {
		return pollError(c, h.logger, err)
	}

	_ = h.feedCache.InvalidateCounts(postID)
	return httpx.Success(c, fiber.Map{"counts": counts})
}

// GetReaction handles GET /api/posts/:postID/reactions/me.
func (h *ReactionHandler) GetReaction(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusUnauthorized, "authentication required")
	}
	postID, err := paramUint(c, "postID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusBadRequest, "invalid post id")
	}

	reaction, err := h.reactions.GetUserReaction(postID, userID)
	if err != nil {
		return pollError(c, h.logger, err)
	}
	if reaction == nil {
		return httpx.Success(c, fiber.Map{"reaction": nil})
	}
	return httpx.Success(c, fiber.Map{"reaction": string(reaction.Type)})
}

type commentRequest struct {
	Content string `json:"content"`
}

// CreateComment handles POST /api/posts/:postID/comments. Returns the
// rendered fragment so the optimistic placeholder can be swapped in place.
func (h *ReactionHandler) CreateComment(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusUnauthorized, "authentication required")
	}
	postID, err := paramUint(c, "postID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusBadRequest, "invalid post id")
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	comment, err := h.reactions.Comment(postID, userID, req.Content)
	if err != nil {
		return pollError(c, h.logger, err)
	}

	_ = h.feedCache.InvalidateCounts(postID)

	html, err := h.renderer.Comment(comment.ID, comment.Author.Username, comment.Content)
	if err != nil {
		h.logger.Warnf("render comment %d: %v", comment.ID, err)
		html = ""
	}
	return httpx.Success(c, fiber.Map{"comment": comment.ToResponse(html)})
}

// ListComments handles GET /api/posts/:postID/comments.
func (h *ReactionHandler) ListComments(c *fiber.Ctx) error {
	postID, err := paramUint(c, "postID")
	if err != nil {
		return httpx.Fail(c, fiber.StatusBadRequest, "invalid post id")
	}
	limit := queryInt(c, "limit", defaultPageSize)
	offset := queryInt(c, "offset", 0)

	comments, err := h.reactions.ListComments(postID, limit, offset)
	if err != nil {
		return pollError(c, h.logger, err)
	}

	out := make([]models.CommentResponse, 0, len(comments))
	for i := range comments {
		cm := &comments[i]
		html, err := h.renderer.Comment(cm.ID, cm.Author.Username, cm.Content)
		if err != nil {
			h.logger.Warnf("render comment %d: %v", cm.ID, err)
			html = ""
		}
		out = append(out, cm.ToResponse(html))
	}
	return httpx.Success(c, fiber.Map{"comments": out})
}
