package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kbrian1237/cemmaBlog-sub002/internal/httpx"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/service"
)

// serviceError maps a service-layer failure onto the JSON error surface.
// Validation failures echo their reason; authorization failures never leak
// what was denied; anything else is a storage error, logged with its request
// id and reported generically.
func serviceError(c *fiber.Ctx, logger *logrus.Logger, err error) error {
	switch {
	case service.IsValidation(err):
		return httpx.BadRequest(c, "invalid_request", err.Error())
	case service.IsAuthorization(err):
		return httpx.Forbidden(c, "forbidden", "Insufficient permissions")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return httpx.NotFound(c, "not_found", "Resource not found")
	default:
		logger.WithField("request_id", c.Locals("requestid")).Errorf("%s %s: %v", c.Method(), c.Path(), err)
		return httpx.Internal(c, "internal_error")
	}
}

// pollError is the same mapping for the poll envelope. Poll clients only
// distinguish success from failure, so every error collapses to a status and
// a short message.
func pollError(c *fiber.Ctx, logger *logrus.Logger, err error) error {
	switch {
	case service.IsValidation(err):
		return httpx.Fail(c, fiber.StatusBadRequest, err.Error())
	case service.IsAuthorization(err):
		return httpx.Fail(c, fiber.StatusForbidden, "not allowed")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return httpx.Fail(c, fiber.StatusNotFound, "not found")
	default:
		logger.WithField("request_id", c.Locals("requestid")).Errorf("%s %s: %v", c.Method(), c.Path(), err)
		return httpx.Fail(c, fiber.StatusInternalServerError, "internal error")
	}
}

func paramUint(c *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

func queryUint(c *fiber.Ctx, name string, def uint) uint {
	v, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil {
		return def
	}
	return uint(v)
}

func queryInt(c *fiber.Ctx, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}
