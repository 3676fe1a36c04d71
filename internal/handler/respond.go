package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/E7itism/stockerflow-sub001/internal/apperr"
	"github.com/E7itism/stockerflow-sub001/internal/service"
)

// respondError maps the error taxonomy to HTTP statuses. Internal failures
// stay opaque; everything else names the offending field or condition.
func respondError(c *fiber.Ctx, err error) error {
	var ve *apperr.ValidationError
	var nf *apperr.NotFoundError
	var is *apperr.InsufficientStockError
	var cf *apperr.ConflictError

	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ve.Error(),
			"field": ve.Field,
		})
	case errors.As(err, &nf):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":    nf.Error(),
			"resource": nf.Resource,
		})
	case errors.As(err, &is):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":         is.Error(),
			"current_stock": is.Current,
			"requested":     is.Requested,
		})
	case errors.As(err, &cf):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": cf.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal Server Error",
		})
	}
}

// principal builds the acting user from context values set by RequireAuth.
func principal(c *fiber.Ctx) service.Principal {
	p := service.Principal{}
	if id, ok := c.Locals("user_id").(string); ok {
		if parsed, err := uuid.Parse(id); err == nil {
			p.ID = parsed
		}
	}
	if name, ok := c.Locals("user_name").(string); ok {
		p.Name = name
	}
	if email, ok := c.Locals("user_email").(string); ok {
		p.Email = email
	}
	return p
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}
