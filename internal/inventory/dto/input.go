package dto

type AdjustInventoryInput struct {
	OrganizationID string  `json:"-"`
	LocationID     string  `json:"locationId" binding:"required"`
	ProductID      string  `json:"productId" binding:"required"`
	QuantityChange float64 `json:"quantityChange" binding:"required"`
	Reason         string  `json:"reason"`
	ReferenceID    string  `json:"referenceId"`
	UserID         string  `json:"-"`
}
