package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/settings"
	"github.com/fekuna/omnipos-inventory-service/internal/settings/cache"
	"github.com/fekuna/omnipos-inventory-service/internal/settings/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/apperror"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

type settingsUseCase struct {
	repo   settings.Repository
	cache  *cache.SettingsCache
	logger logger.ZapLogger
}

func NewSettingsUseCase(repo settings.Repository, c *cache.SettingsCache, log logger.ZapLogger) settings.UseCase {
	return &settingsUseCase{
		repo:   repo,
		cache:  c,
		logger: log,
	}
}

func (uc *settingsUseCase) GetSettings(ctx context.Context, orgID string) (*model.InventorySettings, error) {
	if s, ok := uc.cache.Get(orgID); ok {
		return s, nil
	}

	s, err := uc.repo.GetByOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("load inventory settings: %w", err)
	}
	if s == nil {
		s = model.DefaultInventorySettings(orgID)
	}
	fillThresholdDefaults(s)

	uc.cache.Set(orgID, s)
	return s, nil
}

func (uc *settingsUseCase) GetPolicyForSource(ctx context.Context, orgID string, source model.TriggerSource) (model.DepletionPolicy, error) {
	s, err := uc.GetSettings(ctx, orgID)
	if err != nil {
		return model.DepletionPolicy{}, err
	}
	return s.PolicyFor(source), nil
}

func (uc *settingsUseCase) UpdateSettings(ctx context.Context, input *dto.UpdateSettingsInput) (*model.InventorySettings, error) {
	if input.OrganizationID == "" {
		return nil, apperror.ErrOrganizationRequired()
	}

	s, err := uc.repo.GetByOrganization(ctx, input.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("load inventory settings: %w", err)
	}
	if s == nil {
		s = model.DefaultInventorySettings(input.OrganizationID)
	}

	if input.WebhookPolicy != nil {
		s.WebhookPolicy = *input.WebhookPolicy
	}
	if input.CronSyncPolicy != nil {
		s.CronSyncPolicy = *input.CronSyncPolicy
	}
	if input.ManualPolicy != nil {
		s.ManualPolicy = *input.ManualPolicy
	}
	if input.LogOverDepletions != nil {
		s.LogOverDepletions = *input.LogOverDepletions
	}
	if input.LogUnitConversions != nil {
		s.LogUnitConversions = *input.LogUnitConversions
	}
	if input.AuditRetentionDays != nil {
		s.AuditRetentionDays = *input.AuditRetentionDays
	}
	fillThresholdDefaults(s)

	if err := validate(s); err != nil {
		return nil, err
	}

	s.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Upsert(ctx, s); err != nil {
		return nil, fmt.Errorf("save inventory settings: %w", err)
	}

	uc.InvalidateCache(input.OrganizationID)
	uc.logger.Info("Inventory settings updated", zap.String("organization_id", input.OrganizationID))
	return s, nil
}

func (uc *settingsUseCase) InvalidateCache(orgID string) {
	uc.cache.Invalidate(orgID)
}

func fillThresholdDefaults(s *model.InventorySettings) {
	for _, p := range []*model.DepletionPolicy{&s.WebhookPolicy, &s.CronSyncPolicy, &s.ManualPolicy} {
		if p.WarningThresholds == (model.WarningThresholds{}) {
			p.WarningThresholds = model.DefaultWarningThresholds
		}
	}
	if s.AuditRetentionDays <= 0 {
		s.AuditRetentionDays = model.DefaultAuditRetentionDays
	}
}

func validate(s *model.InventorySettings) error {
	policies := map[string]model.DepletionPolicy{
		"webhookPolicy":  s.WebhookPolicy,
		"cronSyncPolicy": s.CronSyncPolicy,
		"manualPolicy":   s.ManualPolicy,
	}
	for name, p := range policies {
		th := p.WarningThresholds
		if th.LowPercent < 0 || th.LowPercent > 100 || th.CriticalPercent < 0 || th.CriticalPercent > 100 {
			return apperror.ErrValidation("warning thresholds must be between 0 and 100").WithDetail("policy", name)
		}
		if th.CriticalPercent > th.LowPercent {
			return apperror.ErrValidation("critical threshold must not exceed low threshold").WithDetail("policy", name)
		}
	}
	return nil
}
