package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// TriggerSource is the pathway that initiated a depletion.
type TriggerSource string

const (
	TriggerWebhook  TriggerSource = "webhook"
	TriggerCronSync TriggerSource = "cron_sync"
	TriggerManual   TriggerSource = "manual"
)

func (s TriggerSource) Valid() bool {
	switch s {
	case TriggerWebhook, TriggerCronSync, TriggerManual:
		return true
	}
	return false
}

// ClassifySource maps a free-text producer tag such as "pos_webhook" or
// "pos_cron_sync" onto a TriggerSource. Unknown tags are manual.
func ClassifySource(tag string) TriggerSource {
	t := strings.ToLower(tag)
	switch {
	case strings.Contains(t, "webhook"):
		return TriggerWebhook
	case strings.Contains(t, "cron"), strings.Contains(t, "sync"):
		return TriggerCronSync
	default:
		return TriggerManual
	}
}

type WarningThresholds struct {
	LowPercent      float64 `json:"low"`
	CriticalPercent float64 `json:"critical"`
}

type DepletionPolicy struct {
	AllowOverDepletion bool              `json:"allowOverDepletion"`
	WarningThresholds  WarningThresholds `json:"warningThresholds"`
}

func (p DepletionPolicy) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *DepletionPolicy) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	case nil:
		return nil
	}
	return errors.New("depletion policy: unsupported scan type")
}

// InventorySettings holds one organization's depletion policies and logging
// toggles.
type InventorySettings struct {
	OrganizationID     string          `db:"organization_id" json:"organization_id"`
	WebhookPolicy      DepletionPolicy `db:"webhook_policy" json:"webhook_policy"`
	CronSyncPolicy     DepletionPolicy `db:"cron_sync_policy" json:"cron_sync_policy"`
	ManualPolicy       DepletionPolicy `db:"manual_policy" json:"manual_policy"`
	LogOverDepletions  bool            `db:"log_over_depletions" json:"log_over_depletions"`
	LogUnitConversions bool            `db:"log_unit_conversions" json:"log_unit_conversions"`
	AuditRetentionDays int             `db:"audit_retention_days" json:"audit_retention_days"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updated_at"`
}

var DefaultWarningThresholds = WarningThresholds{LowPercent: 20, CriticalPercent: 10}

const DefaultAuditRetentionDays = 90

// DefaultInventorySettings applies when an organization has no settings row.
// Real-time sales are never rejected; batch and manual paths surface
// shortfalls instead of going negative.
func DefaultInventorySettings(orgID string) *InventorySettings {
	return &InventorySettings{
		OrganizationID:     orgID,
		WebhookPolicy:      DepletionPolicy{AllowOverDepletion: true, WarningThresholds: DefaultWarningThresholds},
		CronSyncPolicy:     DepletionPolicy{AllowOverDepletion: false, WarningThresholds: DefaultWarningThresholds},
		ManualPolicy:       DepletionPolicy{AllowOverDepletion: false, WarningThresholds: DefaultWarningThresholds},
		LogOverDepletions:  true,
		LogUnitConversions: true,
		AuditRetentionDays: DefaultAuditRetentionDays,
	}
}

func (s *InventorySettings) PolicyFor(source TriggerSource) DepletionPolicy {
	switch source {
	case TriggerWebhook:
		return s.WebhookPolicy
	case TriggerCronSync:
		return s.CronSyncPolicy
	default:
		return s.ManualPolicy
	}
}
