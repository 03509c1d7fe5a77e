package usecase

import "github.com/shopspring/decimal"

// Stock is one inventory row as seen by the allocator.
type Stock struct {
	ID       string
	Quantity decimal.Decimal
}

// Allocation holds the new quantity and amount consumed for each input row,
// in input order.
type Allocation struct {
	Quantities []decimal.Decimal
	Consumed   []decimal.Decimal
	// Overflow is the part of the requirement charged to the first row
	// beyond its available stock.
	Overflow decimal.Decimal
	// Shortfall is what could not be allocated when overflow is not allowed.
	Shortfall decimal.Decimal
}

// Allocate consumes required greedily from rows with positive stock in order.
// When allowOver is set, any remainder is charged to the first row, which may
// go negative. Sum(Consumed) + Shortfall == required exactly.
func Allocate(items []Stock, required decimal.Decimal, allowOver bool) Allocation {
	a := Allocation{
		Quantities: make([]decimal.Decimal, len(items)),
		Consumed:   make([]decimal.Decimal, len(items)),
	}

	remaining := required
	for i, it := range items {
		a.Quantities[i] = it.Quantity
		a.Consumed[i] = decimal.Zero
		if remaining.Sign() <= 0 || it.Quantity.Sign() <= 0 {
			continue
		}
		take := decimal.Min(it.Quantity, remaining)
		a.Quantities[i] = it.Quantity.Sub(take)
		a.Consumed[i] = take
		remaining = remaining.Sub(take)
	}

	if remaining.Sign() > 0 {
		if allowOver && len(items) > 0 {
			a.Quantities[0] = a.Quantities[0].Sub(remaining)
			a.Consumed[0] = a.Consumed[0].Add(remaining)
			a.Overflow = remaining
		} else {
			a.Shortfall = remaining
		}
	}
	return a
}
