package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/E7itism/stockerflow-sub001/internal/model"
	"github.com/E7itism/stockerflow-sub001/internal/repository"
	"github.com/E7itism/stockerflow-sub001/pkg/jwt"
)

// RequireAuth validates the bearer token, confirms the user still exists and
// is active, and stores the resolved principal in the request context.
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil || !user.IsActive {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found or deactivated"})
		}

		c.Locals("user_id", claims.UserID.String())
		c.Locals("user_email", claims.Email)
		c.Locals("user_name", claims.Name)
		c.Locals("user_role", user.Role)

		return c.Next()
	}
}

// RequireCapability gates a route on the principal's role granting the
// capability. Role is the enumerated type; no string-array membership tests.
func RequireCapability(capability model.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("user_role").(model.Role)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No role found"})
		}

		if !role.Can(capability) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: requires '" + string(capability) + "' capability",
			})
		}
		return c.Next()
	}
}
