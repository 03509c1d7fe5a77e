package usecase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func stocks(qs ...float64) []Stock {
	out := make([]Stock, len(qs))
	for i, q := range qs {
		out[i] = Stock{ID: string(rune('a' + i)), Quantity: decimal.NewFromFloat(q)}
	}
	return out
}

func floats(ds []decimal.Decimal) []float64 {
	out := make([]float64, len(ds))
	for i, d := range ds {
		out[i] = d.InexactFloat64()
	}
	return out
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name      string
		stock     []Stock
		required  float64
		allowOver bool
		want      []float64
		overflow  float64
		shortfall float64
	}{
		{name: "fits across locations", stock: stocks(2, 3, 0), required: 4, want: []float64{0, 1, 0}},
		{name: "remainder to first row", stock: stocks(2, 3, 0), required: 7, allowOver: true, want: []float64{-2, 0, 0}, overflow: 2},
		{name: "remainder kept as shortfall", stock: stocks(2, 3, 0), required: 7, want: []float64{0, 0, 0}, shortfall: 2},
		{name: "negative rows skipped", stock: stocks(-1, 4), required: 3, want: []float64{-1, 1}},
		{name: "overflow on already negative first row", stock: stocks(-1, 1), required: 2, allowOver: true, want: []float64{-2, 0}, overflow: 1},
		{name: "fractional", stock: stocks(0.1, 0.2), required: 0.3, want: []float64{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Allocate(tt.stock, decimal.NewFromFloat(tt.required), tt.allowOver)
			assert.Equal(t, tt.want, floats(a.Quantities))
			assert.Equal(t, tt.overflow, a.Overflow.InexactFloat64())
			assert.Equal(t, tt.shortfall, a.Shortfall.InexactFloat64())

			consumed := decimal.Zero
			for _, c := range a.Consumed {
				consumed = consumed.Add(c)
			}
			assert.True(t, consumed.Add(a.Shortfall).Equal(decimal.NewFromFloat(tt.required)))
		})
	}
}

func TestAllocate_NoRows(t *testing.T) {
	a := Allocate(nil, decimal.NewFromInt(3), true)
	assert.Empty(t, a.Quantities)
	assert.True(t, a.Shortfall.Equal(decimal.NewFromInt(3)))
}
