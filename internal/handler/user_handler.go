package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/E7itism/stockerflow-sub001/internal/model"
	"github.com/E7itism/stockerflow-sub001/internal/service"
)

type UserHandler struct {
	users service.UserService
}

func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req service.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user, err := h.users.Create(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User created", "data": user.ToResponse()})
}

func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.users.List()
	if err != nil {
		return respondError(c, err)
	}

	responses := make([]model.UserResponse, len(users))
	for i := range users {
		responses[i] = users[i].ToResponse()
	}
	return c.JSON(responses)
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}
	user, err := h.users.Get(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user.ToResponse())
}

type updateUserRequest struct {
	FullName string     `json:"full_name"`
	Role     model.Role `json:"role"`
	IsActive bool       `json:"is_active"`
}

func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user, err := h.users.Update(id, req.FullName, req.Role, req.IsActive)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User updated", "data": user.ToResponse()})
}

func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}
	if err := h.users.Delete(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}
