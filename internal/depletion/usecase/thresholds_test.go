package usecase

import (
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateThresholds(t *testing.T) {
	th := model.DefaultWarningThresholds

	assert.Nil(t, EvaluateThresholds(50, 10, th))
	assert.Contains(t, EvaluateThresholds(2, 10, th)[0], "low stock")
	assert.Contains(t, EvaluateThresholds(1, 10, th)[0], "critical stock")
	assert.Contains(t, EvaluateThresholds(-3, 10, th)[0], "critical stock")

	// no floor configured
	assert.Contains(t, EvaluateThresholds(5, 0, th)[0], "low stock")
	assert.Nil(t, EvaluateThresholds(5.5, 0, th))

	custom := model.WarningThresholds{LowPercent: 50, CriticalPercent: 25}
	assert.Contains(t, EvaluateThresholds(4, 10, custom)[0], "low stock")
}
