package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Wadangzz/Dessert-Gemini/internal/api/dto"
	"github.com/Wadangzz/Dessert-Gemini/internal/service"
)

// SessionHandler exposes login and logout endpoints.
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler constructs handler.
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Login handles POST /auth/login.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.EmployeeID == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "employee_id and password required")
	}

	caller, token, exp, err := h.sessions.Login(c.Context(), req.EmployeeID, req.Password)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"employee": fiber.Map{
				"employee_id": caller.EmployeeID,
				"name":        caller.Name,
				"role":        caller.Role,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Logout handles POST /auth/logout.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.Logout(c.Context(), ""); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "logged_out"}})
}
