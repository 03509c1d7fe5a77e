package dto

import "time"

// SyncOptions narrows a run. Zero dates fall back to the last sync window.
type SyncOptions struct {
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	Forced    bool       `json:"forced"`
}

type SyncResult struct {
	IntegrationID    string    `json:"integrationId"`
	Status           string    `json:"status"`
	WindowStart      time.Time `json:"windowStart"`
	WindowEnd        time.Time `json:"windowEnd"`
	Processed        int       `json:"processed"`
	Errors           int       `json:"errors"`
	NewSales         int       `json:"newSales"`
	Duplicates       int       `json:"duplicates"`
	DepletionSkipped bool      `json:"depletionSkipped,omitempty"`
	ErrorDetails     []string  `json:"errorDetails,omitempty"`
}

type BulkSyncResult struct {
	Integrations []SyncResult `json:"integrations"`
	Processed    int          `json:"processed"`
	Errors       int          `json:"errors"`
	NewSales     int          `json:"newSales"`
	Duplicates   int          `json:"duplicates"`
	ErrorDetails []string     `json:"errorDetails,omitempty"`
}

func (b *BulkSyncResult) Add(r *SyncResult) {
	b.Integrations = append(b.Integrations, *r)
	b.Processed += r.Processed
	b.Errors += r.Errors
	b.NewSales += r.NewSales
	b.Duplicates += r.Duplicates
}

// POSOrder is one closed order as returned by the POS provider.
type POSOrder struct {
	ID          string        `json:"id"`
	CreatedAt   time.Time     `json:"created_at"`
	TotalAmount float64       `json:"total_amount"`
	LineItems   []POSLineItem `json:"line_items"`
}

type POSLineItem struct {
	ExternalProductID string  `json:"product_id"`
	Name              string  `json:"name"`
	Quantity          float64 `json:"quantity"`
	UnitPrice         float64 `json:"unit_price"`
}

// AggregatedLine is every raw line of one order that references the same
// external product.
type AggregatedLine struct {
	ExternalProductID string
	Name              string
	Quantity          float64
	UnitPrice         float64 // quantity-weighted average
}
