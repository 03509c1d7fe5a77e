package model

type Product struct {
	BaseModel
	OrganizationID string   `db:"organization_id" json:"organization_id"`
	Name           string   `db:"name" json:"name"`
	SKU            *string  `db:"sku" json:"sku"`
	Unit           string   `db:"unit" json:"unit"`                     // unit inventory is tracked in, e.g. "bottle" or "ml"
	ContainerSize  *float64 `db:"container_size" json:"container_size"` // content of one container, e.g. 750
	ContainerUnit  *string  `db:"container_unit" json:"container_unit"` // unit of ContainerSize, e.g. "ml"
	IsActive       bool     `db:"is_active" json:"is_active"`
}

// HasContainerSize reports whether the product declares a positive container size.
func (p *Product) HasContainerSize() bool {
	return p.ContainerSize != nil && *p.ContainerSize > 0
}
