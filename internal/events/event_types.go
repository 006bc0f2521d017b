package events

import (
	"time"

	"github.com/Wadangzz/Dessert-Gemini/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventStockChanged     EventType = "stock_changed"
	EventEmployeesChanged EventType = "employees_changed"
)

// Event represents a domain event emitted after a successful mutation.
type Event struct {
	Type       EventType     `json:"type"`
	EmployeeID string        `json:"employee_id"`
	Timestamp  time.Time     `json:"timestamp"`
	Payload    interface{}   `json:"payload"`
	Action     domain.Action `json:"action"`
}

// StockChangedPayload describes a mutated stock row.
type StockChangedPayload struct {
	ProductName string       `json:"product_name"`
	Floor       domain.Floor `json:"floor"`
	Quantity    int          `json:"quantity"`
}

// EmployeesChangedPayload describes a provisioned or removed employee.
type EmployeesChangedPayload struct {
	EmployeeID string `json:"employee_id"`
}
