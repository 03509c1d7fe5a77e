package audit

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/audit/dto"
)

// UseCase records audit events. Record methods never fail: persistence
// errors are logged and swallowed so inventory mutations are not aborted.
type UseCase interface {
	RecordOverDepletion(ctx context.Context, event *dto.Event)
	RecordUnitConversion(ctx context.Context, event *dto.Event)
	RecordInventoryAdjustment(ctx context.Context, event *dto.Event)
	RecordInventoryDepletion(ctx context.Context, event *dto.Event)
	Record(ctx context.Context, eventType string, event *dto.Event)

	PurgeExpired(ctx context.Context) (int64, error)
}
