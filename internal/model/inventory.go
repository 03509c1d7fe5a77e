package model

import "time"

// InventoryItem is the stock of one product at one storage location.
// CurrentQuantity may go negative under an over-depletion policy.
type InventoryItem struct {
	BaseModel
	OrganizationID  string   `db:"organization_id" json:"organization_id"`
	ProductID       string   `db:"product_id" json:"product_id"`
	LocationID      string   `db:"location_id" json:"location_id"`
	CurrentQuantity float64  `db:"current_quantity" json:"current_quantity"`
	MinimumQuantity *float64 `db:"minimum_quantity" json:"minimum_quantity"`
}

// InventoryCount is a physical count. The engine only reads approved ones.
type InventoryCount struct {
	ID             string     `db:"id"`
	OrganizationID string     `db:"organization_id"`
	Status         string     `db:"status"`
	ApprovedAt     *time.Time `db:"approved_at"`
}

const CountStatusApproved = "approved"
