package dto

import "github.com/fekuna/omnipos-inventory-service/internal/model"

type InventoryFilters struct {
	OrganizationID string
	LocationID     string
	ProductID      string
	LowStock       bool // current_quantity <= minimum_quantity
	Page           int
	PageSize       int
}

type ProductStock struct {
	ProductID     string                `json:"product_id"`
	TotalQuantity float64               `json:"total_quantity"`
	Locations     []model.InventoryItem `json:"locations"`
}
