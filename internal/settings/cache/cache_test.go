package cache

import (
	"testing"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsCache_ExpiresAfterTTL(t *testing.T) {
	c := New(20 * time.Millisecond)

	c.Set("org-1", model.DefaultInventorySettings("org-1"))

	got, ok := c.Get("org-1")
	require.True(t, ok)
	assert.Equal(t, "org-1", got.OrganizationID)

	assert.Eventually(t, func() bool {
		_, ok := c.Get("org-1")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestSettingsCache_HitDoesNotExtendTTL(t *testing.T) {
	c := New(50 * time.Millisecond)
	c.Set("org-1", model.DefaultInventorySettings("org-1"))

	deadline := time.Now().Add(50 * time.Millisecond)
	for time.Now().Before(deadline) {
		c.Get("org-1")
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("org-1")
	assert.False(t, ok)
}

func TestSettingsCache_NonPositiveTTLUsesDefault(t *testing.T) {
	c := New(0)
	c.Set("org-1", model.DefaultInventorySettings("org-1"))

	item := c.items.Get("org-1")
	require.NotNil(t, item)
	assert.Equal(t, DefaultTTL, item.TTL())
}

func TestSettingsCache_Invalidate(t *testing.T) {
	c := New(time.Minute)
	c.Set("org-1", model.DefaultInventorySettings("org-1"))
	c.Set("org-2", model.DefaultInventorySettings("org-2"))

	c.Invalidate("org-1")

	_, ok := c.Get("org-1")
	assert.False(t, ok)
	_, ok = c.Get("org-2")
	assert.True(t, ok)
}

func TestSettingsCache_GetReturnsCopy(t *testing.T) {
	c := New(time.Minute)
	c.Set("org-1", model.DefaultInventorySettings("org-1"))

	got, _ := c.Get("org-1")
	got.WebhookPolicy.AllowOverDepletion = false

	again, _ := c.Get("org-1")
	assert.True(t, again.WebhookPolicy.AllowOverDepletion)
}
