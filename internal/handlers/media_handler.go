package handlers

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kbrian1237/cemmaBlog-sub002/internal/httpx"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/service"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/storage"
)

// 8 MiB upload cap before decode; the optimizer bounds the stored size.
const maxUploadBytes = 8 << 20

type MediaHandler struct {
	store  *storage.ObjectStore
	posts  *service.PostService
	logger *logrus.Logger
}

func NewMediaHandler(store *storage.ObjectStore, posts *service.PostService, logger *logrus.Logger) *MediaHandler {
	return &MediaHandler{store: store, posts: posts, logger: logger}
}

// Enabled reports whether an object store was configured. Routes are only
// mounted when it was.
func (h *MediaHandler) Enabled() bool {
	return h.store != nil
}

// UploadPostImage handles POST /api/posts/:postID/image (multipart field
// "image"). The image is re-encoded server side and attached to the post;
// only the post author may attach.
func (h *MediaHandler) UploadPostImage(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Authentication required")
	}
	postID, err := paramUint(c, "postID")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid post id")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return httpx.BadRequest(c, "missing_file", "Image file is required")
	}
	if fileHeader.Size > maxUploadBytes {
		return httpx.BadRequest(c, "file_too_large", "Image exceeds the upload limit")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return httpx.BadRequest(c, "invalid_file", "Could not read uploaded file")
	}
	defer file.Close()

	encoded, contentType, err := storage.OptimizeImage(file)
	if err != nil {
		return httpx.BadRequest(c, "invalid_image", "Unsupported or corrupt image")
	}

	key, err := storage.SafeImageKey(fmt.Sprintf("%d/%s.jpg", postID, uuid.NewString()))
	if err != nil {
		return httpx.BadRequest(c, "invalid_key", "Invalid image key")
	}

	if _, err := h.store.Put(c.Context(), key, bytes.NewReader(encoded), int64(len(encoded)), contentType); err != nil {
		h.logger.Errorf("put image %s: %v", key, err)
		return httpx.Internal(c, "upload_failed")
	}

	if err := h.posts.AttachImage(postID, userID, key); err != nil {
		// Roll the orphaned object back; the attach decision is the
		// authority, not the bucket.
		if delErr := h.store.Delete(c.Context(), key); delErr != nil {
			h.logger.Warnf("orphan cleanup %s: %v", key, delErr)
		}
		return serviceError(c, h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"image_key": key})
}

// GetImage handles GET /api/media/* and streams the object through.
func (h *MediaHandler) GetImage(c *fiber.Ctx) error {
	key, err := storage.SafeImageKey(c.Params("*"))
	if err != nil {
		return httpx.BadRequest(c, "invalid_key", "Invalid image key")
	}

	obj, stat, err := h.store.Get(c.Context(), key)
	if err != nil {
		return httpx.NotFound(c, "not_found", "Image not found")
	}
	defer obj.Close()

	c.Set(fiber.HeaderContentType, stat.ContentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	c.Set(fiber.HeaderETag, stat.ETag)

	data, err := io.ReadAll(obj)
	if err != nil {
		h.logger.Errorf("read image %s: %v", key, err)
		return httpx.Internal(c, "read_failed")
	}
	return c.Send(data)
}
