package model

import "time"

// Sale is one ingested POS transaction. ExternalID is unique per organization.
type Sale struct {
	ID             string    `db:"id"`
	OrganizationID string    `db:"organization_id"`
	IntegrationID  string    `db:"integration_id"`
	ExternalID     string    `db:"external_id"`
	TotalAmount    float64   `db:"total_amount"`
	SaleTimestamp  time.Time `db:"sale_timestamp"`
	CreatedAt      time.Time `db:"created_at"`
}

// SaleItem references either a product or a recipe, never both. Both are
// nil when the POS line could not be resolved.
type SaleItem struct {
	ID           string  `db:"id"`
	SaleID       string  `db:"sale_id"`
	POSProductID *string `db:"pos_product_id"`
	ProductID    *string `db:"product_id"`
	RecipeID     *string `db:"recipe_id"`
	Quantity     float64 `db:"quantity"`
	UnitPrice    float64 `db:"unit_price"`
}
