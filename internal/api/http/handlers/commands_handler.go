package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Wadangzz/Dessert-Gemini/internal/api/dto"
	"github.com/Wadangzz/Dessert-Gemini/internal/auth"
	"github.com/Wadangzz/Dessert-Gemini/internal/service"
)

// CommandsHandler accepts natural-language commands from authenticated callers.
type CommandsHandler struct {
	commands *service.CommandService
}

// NewCommandsHandler constructs handler.
func NewCommandsHandler(commands *service.CommandService) *CommandsHandler {
	return &CommandsHandler{commands: commands}
}

// Submit handles POST /commands.
func (h *CommandsHandler) Submit(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.CommandRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	command := strings.TrimSpace(req.Command)
	if command == "" {
		return fiber.NewError(http.StatusBadRequest, "command required")
	}

	result, err := h.commands.Submit(c.UserContext(), caller, command)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.CommandResponse{
		Message:     result.Message,
		Passthrough: result.Passthrough,
		Outcomes:    result.Outcomes,
	}})
}
