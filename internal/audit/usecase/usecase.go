package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/audit"
	"github.com/fekuna/omnipos-inventory-service/internal/audit/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/settings"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type auditUseCase struct {
	repo     audit.Repository
	settings settings.UseCase
	logger   logger.ZapLogger
	now      func() time.Time
}

func NewAuditUseCase(repo audit.Repository, settingsUC settings.UseCase, log logger.ZapLogger) audit.UseCase {
	return &auditUseCase{
		repo:     repo,
		settings: settingsUC,
		logger:   log,
		now:      time.Now,
	}
}

func (uc *auditUseCase) RecordOverDepletion(ctx context.Context, event *dto.Event) {
	if !uc.enabled(ctx, event.OrganizationID, func(s *model.InventorySettings) bool { return s.LogOverDepletions }) {
		return
	}
	uc.Record(ctx, model.AuditEventOverDepletion, event)
}

func (uc *auditUseCase) RecordUnitConversion(ctx context.Context, event *dto.Event) {
	if !uc.enabled(ctx, event.OrganizationID, func(s *model.InventorySettings) bool { return s.LogUnitConversions }) {
		return
	}
	uc.Record(ctx, model.AuditEventUnitConversion, event)
}

func (uc *auditUseCase) RecordInventoryAdjustment(ctx context.Context, event *dto.Event) {
	uc.Record(ctx, model.AuditEventInventoryAdjustment, event)
}

func (uc *auditUseCase) RecordInventoryDepletion(ctx context.Context, event *dto.Event) {
	uc.Record(ctx, model.AuditEventInventoryDepletion, event)
}

func (uc *auditUseCase) Record(ctx context.Context, eventType string, event *dto.Event) {
	entry := &model.AuditLog{
		ID:              uuid.New().String(),
		OrganizationID:  event.OrganizationID,
		EventType:       eventType,
		ProductID:       optional(event.ProductID),
		RecipeID:        optional(event.RecipeID),
		UserID:          optional(event.UserID),
		EventData:       event.Data,
		Source:          string(event.Source),
		ExternalOrderID: optional(event.ExternalOrderID),
		CreatedAt:       uc.now().UTC(),
	}

	if err := uc.repo.Create(ctx, entry); err != nil {
		uc.logger.Error("failed to write audit log",
			zap.String("event_type", eventType),
			zap.String("organization_id", event.OrganizationID),
			zap.Error(err),
		)
	}
}

func (uc *auditUseCase) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := uc.repo.PurgeExpired(ctx, uc.now().UTC(), model.DefaultAuditRetentionDays)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		uc.logger.Info("Purged expired audit logs", zap.Int64("deleted", n))
	}
	return n, nil
}

// enabled reads a logging toggle. Unreadable settings count as enabled.
func (uc *auditUseCase) enabled(ctx context.Context, orgID string, flag func(*model.InventorySettings) bool) bool {
	s, err := uc.settings.GetSettings(ctx, orgID)
	if err != nil {
		uc.logger.Warn("audit toggle unavailable, recording anyway", zap.String("organization_id", orgID), zap.Error(err))
		return true
	}
	return flag(s)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
