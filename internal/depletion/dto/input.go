package dto

import (
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

// SaleItemInput is one sold line to deplete. Source selects the policy.
type SaleItemInput struct {
	OrganizationID    string
	IntegrationID     string
	ExternalProductID string
	Name              string
	QuantitySold      float64
	ExternalOrderID   string
	Timestamp         time.Time
	Source            model.TriggerSource
	UserID            string
}

type ManualDepletionInput struct {
	IntegrationID     string  `json:"integrationId" binding:"required"`
	ExternalProductID string  `json:"externalProductId" binding:"required"`
	Quantity          float64 `json:"quantity" binding:"required,gt=0"`
	ExternalOrderID   string  `json:"externalOrderId"`
}
