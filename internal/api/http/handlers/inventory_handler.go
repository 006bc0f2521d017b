package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Wadangzz/Dessert-Gemini/internal/api/dto"
	"github.com/Wadangzz/Dessert-Gemini/internal/cache"
	"github.com/Wadangzz/Dessert-Gemini/internal/domain"
)

// InventoryHandler serves the per-floor stock snapshot.
type InventoryHandler struct {
	inventory *cache.InventoryCache
}

// NewInventoryHandler constructs handler.
func NewInventoryHandler(inventory *cache.InventoryCache) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// Floor handles GET /inventory?floor=N.
func (h *InventoryHandler) Floor(c *fiber.Ctx) error {
	raw := c.Query("floor")
	if raw == "" {
		return fiber.NewError(http.StatusBadRequest, "floor query parameter required")
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "floor must be an integer")
	}
	floor := domain.Floor(parsed)
	if !floor.Valid() {
		return fiber.NewError(http.StatusBadRequest, "unknown floor")
	}

	items, err := h.inventory.Floor(c.UserContext(), floor)
	if err != nil {
		return err
	}

	response := make([]dto.InventoryItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, dto.InventoryItemResponse{
			ItemID:      item.ItemID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Floor:       int(item.Floor),
		})
	}
	return c.JSON(fiber.Map{"data": response})
}
