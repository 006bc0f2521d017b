package domain

import "time"

// Floor identifies a physical stocking location. The same product name is a
// distinct stock row per floor.
type Floor int

const (
	FloorSecond Floor = 2
	FloorThird  Floor = 3
)

// Valid reports whether the floor is a known stocking location.
func (f Floor) Valid() bool {
	return f == FloorSecond || f == FloorThird
}

// Floors lists the known stocking locations.
func Floors() []Floor {
	return []Floor{FloorSecond, FloorThird}
}

// InventoryItem is a stocked product at a specific floor.
//
// ItemID is the business key, distinct from the storage row ID; on first
// insert it is assigned equal to ID so a later re-identification scheme can
// replace it without touching the row identity.
type InventoryItem struct {
	ID          int64
	ItemID      int64
	ProductName string
	Quantity    int
	Floor       Floor
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
