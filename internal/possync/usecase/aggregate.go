package usecase

import "github.com/fekuna/omnipos-inventory-service/internal/possync/dto"

// AggregateLines merges raw lines per external product in first-seen order,
// summing quantity and recomputing a quantity-weighted unit price. Lines
// with no product id or a non-positive quantity are dropped.
func AggregateLines(lines []dto.POSLineItem) []dto.AggregatedLine {
	index := make(map[string]int, len(lines))
	var out []dto.AggregatedLine
	var revenue []float64

	for _, l := range lines {
		if l.ExternalProductID == "" || l.Quantity <= 0 {
			continue
		}
		i, ok := index[l.ExternalProductID]
		if !ok {
			index[l.ExternalProductID] = len(out)
			out = append(out, dto.AggregatedLine{
				ExternalProductID: l.ExternalProductID,
				Name:              l.Name,
			})
			revenue = append(revenue, 0)
			i = len(out) - 1
		}
		out[i].Quantity += l.Quantity
		revenue[i] += l.Quantity * l.UnitPrice
		if out[i].Name == "" {
			out[i].Name = l.Name
		}
	}

	for i := range out {
		out[i].UnitPrice = revenue[i] / out[i].Quantity
	}
	return out
}
