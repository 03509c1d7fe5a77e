package model

import "time"

type POSIntegration struct {
	BaseModel
	OrganizationID  string     `db:"organization_id"`
	Provider        string     `db:"provider"`
	AccessToken     string     `db:"access_token"`
	IsActive        bool       `db:"is_active"`
	LastSalesSyncAt *time.Time `db:"last_sales_sync_at"`
	SyncStatus      string     `db:"sync_status"`
}

type POSLocation struct {
	ID                 string `db:"id"`
	IntegrationID      string `db:"integration_id"`
	ExternalLocationID string `db:"external_location_id"`
	Name               string `db:"name"`
	Timezone           string `db:"timezone"`
	CloseoutHour       *int   `db:"closeout_hour"`
}

// POSProduct is the internal copy of one external POS catalog entry.
type POSProduct struct {
	BaseModel
	OrganizationID    string   `db:"organization_id"`
	IntegrationID     string   `db:"integration_id"`
	ExternalProductID string   `db:"external_product_id"`
	Name              string   `db:"name"`
	ServingUnit       *string  `db:"serving_unit"`
	ServingSize       *float64 `db:"serving_size"`
	IsPlaceholder     bool     `db:"is_placeholder"`
}

type ProductMapping struct {
	ID           string   `db:"id"`
	POSProductID string   `db:"pos_product_id"`
	ProductID    string   `db:"product_id"`
	ServingUnit  *string  `db:"serving_unit"` // overrides POSProduct.ServingUnit
	ServingSize  *float64 `db:"serving_size"` // overrides POSProduct.ServingSize
	IsConfirmed  bool     `db:"is_confirmed"`
}

type Recipe struct {
	ID             string       `db:"id"`
	OrganizationID string       `db:"organization_id"`
	Name           string       `db:"name"`
	Items          []RecipeItem `db:"-"`
}

// RecipeItem is the quantity of one product consumed per recipe serving.
type RecipeItem struct {
	ID        string  `db:"id"`
	RecipeID  string  `db:"recipe_id"`
	ProductID string  `db:"product_id"`
	Quantity  float64 `db:"quantity"`
	Unit      *string `db:"unit"`
	SortOrder int     `db:"sort_order"`
}

type RecipePOSMapping struct {
	ID           string `db:"id"`
	POSProductID string `db:"pos_product_id"`
	RecipeID     string `db:"recipe_id"`
	IsConfirmed  bool   `db:"is_confirmed"`
	IsActive     bool   `db:"is_active"`
}

// Resolution is the outcome of mapping an external product id. Exactly one of
// ProductMapping and RecipeMapping is set.
type Resolution struct {
	POSProduct     *POSProduct
	ProductMapping *ProductMapping
	RecipeMapping  *RecipePOSMapping
}

func (r *Resolution) IsRecipe() bool {
	return r.RecipeMapping != nil
}

// ServingSpec returns the serving unit and size for a direct mapping: the
// mapping override first, then the POS catalog entry, size defaulting to 1.
func (r *Resolution) ServingSpec() (unit string, size float64) {
	size = 1
	if r.POSProduct != nil {
		if r.POSProduct.ServingUnit != nil {
			unit = *r.POSProduct.ServingUnit
		}
		if r.POSProduct.ServingSize != nil && *r.POSProduct.ServingSize > 0 {
			size = *r.POSProduct.ServingSize
		}
	}
	if m := r.ProductMapping; m != nil {
		if m.ServingUnit != nil && *m.ServingUnit != "" {
			unit = *m.ServingUnit
		}
		if m.ServingSize != nil && *m.ServingSize > 0 {
			size = *m.ServingSize
		}
	}
	return unit, size
}
