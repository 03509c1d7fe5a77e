package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

const (
	AuditEventOverDepletion       = "over_depletion"
	AuditEventUnitConversion      = "unit_conversion"
	AuditEventInventoryAdjustment = "inventory_adjustment"
	AuditEventInventoryDepletion  = "inventory_depletion"
)

type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	case nil:
		*m = nil
		return nil
	}
	return errors.New("json map: unsupported scan type")
}

// AuditLog is append-only.
type AuditLog struct {
	ID              string    `db:"id" json:"id"`
	OrganizationID  string    `db:"organization_id" json:"organization_id"`
	EventType       string    `db:"event_type" json:"event_type"`
	ProductID       *string   `db:"product_id" json:"product_id,omitempty"`
	RecipeID        *string   `db:"recipe_id" json:"recipe_id,omitempty"`
	UserID          *string   `db:"user_id" json:"user_id,omitempty"`
	EventData       JSONMap   `db:"event_data" json:"event_data"`
	Source          string    `db:"source" json:"source"`
	ExternalOrderID *string   `db:"external_order_id" json:"external_order_id,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
