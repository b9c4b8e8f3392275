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

type PostHandler struct {
	posts     *service.PostService
	reactions *service.ReactionService
	renderer  *render.Renderer
	feedCache *cache.FeedCache
	logger    *logrus.Logger
}

func NewPostHandler(
	posts *service.PostService,
	reactions *service.ReactionService,
	renderer *render.Renderer,
	feedCache *cache.FeedCache,
	logger *logrus.Logger,
) *PostHandler {
	return &PostHandler{
		posts:     posts,
		reactions: reactions,
		renderer:  renderer,
		feedCache: feedCache,
		logger:    logger,
	}
}

// toResponse renders the post body to HTML and fills in fresh counters,
// going through the short-lived counts cache first.
func (h *PostHandler) toResponse(p *models.Post) (models.PostResponse, error) {
	html, err := h.renderer.Body(p.Body)
	if err != nil {
		return models.PostResponse{}, err
	}

	counts, ok := h.feedCache.GetCounts(p.ID)
	if !ok {
		fresh, err := h.posts.CountsFor(p.ID)
		if err != nil {
			return models.PostResponse{}, err
		}
		counts = fresh.Reactions
		_ = h.feedCache.SetCounts(p.ID, counts)
		return p.ToResponse(html, counts.Likes, counts.Dislikes, fresh.Comments), nil
	}

	fresh, err := h.posts.CountsFor(p.ID)
	commentCount := int64(0)
	if err == nil {
		commentCount = fresh.Comments
	}
	return p.ToResponse(html, counts.Likes, counts.Dislikes, commentCount), nil
}

func (h *PostHandler) toResponses(posts []models.Post) ([]models.PostResponse, error) {
	out := make([]models.PostResponse, 0, len(posts))
	for i := range posts {
		resp, err := h.toResponse(&posts[i])
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

type createPostRequest struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	CategoryIDs []uint `json:"category_ids"`
}

// CreatePost handles POST /api/posts.
func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Authentication required")
	}

	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	post, err := h.posts.CreatePost(userID, service.CreatePostInput{
		Title:       req.Title,
		Body:        req.Body,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		return serviceError(c, h.logger, err)
	}

	resp, err := h.toResponse(post)
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetPost handles GET /api/posts/:postID.
func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	postID, err := paramUint(c, "postID")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid post id")
	}

	post, err := h.posts.GetPost(postID)
	if err != nil {
		return serviceError(c, h.logger, err)
	}

	resp, err := h.toResponse(post)
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(resp)
}

// GetFeed handles GET /api/posts?category=N&limit=&offset=.
func (h *PostHandler) GetFeed(c *fiber.Ctx) error {
	var categoryID *uint
	if v := queryUint(c, "category", 0); v != 0 {
		categoryID = &v
	}
	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)

	posts, err := h.posts.GetFeed(categoryID, limit, offset)
	if err != nil {
		return serviceError(c, h.logger, err)
	}

	responses, err := h.toResponses(posts)
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"posts": responses})
}

// GetUserPosts handles GET /api/users/:userID/posts.
func (h *PostHandler) GetUserPosts(c *fiber.Ctx) error {
	authorID, err := paramUint(c, "userID")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid user id")
	}
	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)

	posts, err := h.posts.GetPostsByAuthor(authorID, limit, offset)
	if err != nil {
		return serviceError(c, h.logger, err)
	}

	responses, err := h.toResponses(posts)
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"posts": responses})
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

// CreateCategory handles POST /api/categories (admin only, enforced at the
// route level).
func (h *PostHandler) CreateCategory(c *fiber.Ctx) error {
	var req createCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	category, err := h.posts.CreateCategory(req.Name)
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// ListCategories handles GET /api/categories.
func (h *PostHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.posts.ListCategories()
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"categories": categories})
}
