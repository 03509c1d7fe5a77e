package usecase

import (
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/possync/dto"
)

// DefaultLookback is the window used when there is no prior sync or the run
// is forced.
const DefaultLookback = 24 * time.Hour

// ResolveWindow picks the fetch window: explicit dates first, then one second
// past the last successful sync, then now minus lookback.
func ResolveWindow(opts *dto.SyncOptions, lastSync *time.Time, now time.Time, lookback time.Duration) (start, end time.Time) {
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	if opts == nil {
		opts = &dto.SyncOptions{}
	}

	end = now
	if opts.EndDate != nil {
		end = *opts.EndDate
	}

	switch {
	case opts.StartDate != nil:
		start = *opts.StartDate
	case !opts.Forced && lastSync != nil:
		start = lastSync.Add(time.Second)
	default:
		start = end.Add(-lookback)
	}

	if start.After(end) {
		start = end
	}
	return start, end
}
