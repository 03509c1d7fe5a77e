package cache

import (
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/jellydator/ttlcache/v3"
)

const DefaultTTL = 5 * time.Minute

// SettingsCache is a process-wide, per-organization TTL cache. Readers may
// observe a value up to one TTL old unless the writer calls Invalidate.
type SettingsCache struct {
	items *ttlcache.Cache[string, model.InventorySettings]
}

func New(ttl time.Duration) *SettingsCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SettingsCache{
		items: ttlcache.New[string, model.InventorySettings](
			ttlcache.WithTTL[string, model.InventorySettings](ttl),
			ttlcache.WithDisableTouchOnHit[string, model.InventorySettings](),
		),
	}
}

// Get returns a copy so callers cannot mutate the cached value.
func (c *SettingsCache) Get(orgID string) (*model.InventorySettings, bool) {
	item := c.items.Get(orgID)
	if item == nil || item.IsExpired() {
		return nil, false
	}
	s := item.Value()
	return &s, true
}

func (c *SettingsCache) Set(orgID string, s *model.InventorySettings) {
	c.items.Set(orgID, *s, ttlcache.DefaultTTL)
}

func (c *SettingsCache) Invalidate(orgID string) {
	c.items.Delete(orgID)
}
