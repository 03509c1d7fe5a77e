package usecase

import (
	"fmt"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

// absoluteLowStock applies when no minimum quantity is configured.
const absoluteLowStock = 5.0

// EvaluateThresholds classifies the product-wide final quantity against the
// summed minimum quantity floor.
func EvaluateThresholds(final, floor float64, t model.WarningThresholds) []string {
	if floor <= 0 {
		if final <= absoluteLowStock {
			return []string{fmt.Sprintf("low stock: %g remaining", final)}
		}
		return nil
	}

	pct := final * 100 / floor
	switch {
	case pct <= t.CriticalPercent:
		return []string{fmt.Sprintf("critical stock: %g remaining (%.0f%% of minimum %g)", final, pct, floor)}
	case pct <= t.LowPercent:
		return []string{fmt.Sprintf("low stock: %g remaining (%.0f%% of minimum %g)", final, pct, floor)}
	}
	return nil
}
