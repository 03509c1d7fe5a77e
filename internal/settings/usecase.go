package settings

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/settings/dto"
)

type UseCase interface {
	GetSettings(ctx context.Context, orgID string) (*model.InventorySettings, error)
	GetPolicyForSource(ctx context.Context, orgID string, source model.TriggerSource) (model.DepletionPolicy, error)
	UpdateSettings(ctx context.Context, input *dto.UpdateSettingsInput) (*model.InventorySettings, error)
	InvalidateCache(orgID string)
}
