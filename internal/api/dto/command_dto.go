package dto

import "github.com/Wadangzz/Dessert-Gemini/internal/domain"

// CommandRequest payload for natural-language command submission.
type CommandRequest struct {
	Command string `json:"command"`
}

// CommandResponse carries the aggregated result of one command.
type CommandResponse struct {
	Message     string               `json:"message"`
	Passthrough bool                 `json:"passthrough,omitempty"`
	Outcomes    []domain.TaskOutcome `json:"outcomes,omitempty"`
}

// InventoryItemResponse is one stock row in the floor snapshot.
type InventoryItemResponse struct {
	ItemID      int64  `json:"item_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Floor       int    `json:"floor"`
}
