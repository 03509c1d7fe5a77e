package dto

import (
	"time"

	depletiondto "github.com/fekuna/omnipos-inventory-service/internal/depletion/dto"
)

type SalePayload struct {
	IntegrationID   string            `json:"integrationId" binding:"required"`
	ExternalOrderID string            `json:"externalOrderId" binding:"required"`
	Timestamp       time.Time         `json:"timestamp" binding:"required"`
	Items           []SaleItemPayload `json:"items" binding:"required,min=1,dive"`
	TotalAmount     *float64          `json:"totalAmount"`
	Source          string            `json:"source"`
}

type SaleItemPayload struct {
	POSProductID      string   `json:"posProductId"`
	ExternalProductID string   `json:"externalProductId" binding:"required"`
	Quantity          float64  `json:"quantity" binding:"required,gt=0"`
	Price             *float64 `json:"price"`
	Name              string   `json:"name"`
}

type ItemResult struct {
	ExternalProductID string              `json:"externalProductId"`
	Result            depletiondto.Result `json:"result"`
}

type ItemError struct {
	ExternalProductID string `json:"externalProductId"`
	Error             string `json:"error"`
}

// IngestResult is returned with HTTP 200 even when some items failed.
type IngestResult struct {
	Success      bool         `json:"success"`
	Processed    int          `json:"processed"`
	Errors       int          `json:"errors"`
	Results      []ItemResult `json:"results"`
	ErrorDetails []ItemError  `json:"errorDetails,omitempty"`
}
