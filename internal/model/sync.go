package model

import "time"

const (
	SyncStatusSuccess = "success"
	SyncStatusPartial = "partial"
	SyncStatusFailed  = "failed"
	SyncStatusSkipped = "skipped"
)

// SyncLog summarizes one sync run of one integration. Write-once.
type SyncLog struct {
	ID             string    `db:"id"`
	OrganizationID string    `db:"organization_id"`
	IntegrationID  string    `db:"integration_id"`
	Status         string    `db:"status"`
	WindowStart    time.Time `db:"window_start"`
	WindowEnd      time.Time `db:"window_end"`
	Processed      int       `db:"processed"`
	Failed         int       `db:"failed"`
	NewSales       int       `db:"new_sales"`
	Duplicates     int       `db:"duplicates"`
	ErrorSummary   *string   `db:"error_summary"`
	StartedAt      time.Time `db:"started_at"`
	FinishedAt     time.Time `db:"finished_at"`
}
