package audit

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, log *model.AuditLog) error
	// PurgeExpired deletes rows older than each organization's retention
	// window, using defaultDays where no settings row exists.
	PurgeExpired(ctx context.Context, now time.Time, defaultDays int) (int64, error)
}
