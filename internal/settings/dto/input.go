package dto

import "github.com/fekuna/omnipos-inventory-service/internal/model"

// UpdateSettingsInput carries a partial update; nil fields keep their value.
type UpdateSettingsInput struct {
	OrganizationID     string                 `json:"-"`
	WebhookPolicy      *model.DepletionPolicy `json:"webhookPolicy"`
	CronSyncPolicy     *model.DepletionPolicy `json:"cronSyncPolicy"`
	ManualPolicy       *model.DepletionPolicy `json:"manualPolicy"`
	LogOverDepletions  *bool                  `json:"logOverDepletions"`
	LogUnitConversions *bool                  `json:"logUnitConversions"`
	AuditRetentionDays *int                   `json:"auditRetentionDays"`
}
