package domain

import "time"

// PurchaseLogEntry is the immutable audit record of a stock decrement.
type PurchaseLogEntry struct {
	ID          int64
	EmployeeID  string
	ItemID      int64
	ProductName string
	Quantity    int
	CreatedAt   time.Time
}
