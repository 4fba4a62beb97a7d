package reports

import (
	"math"
	"slices"

	"dukapos/backend/internal/domain"
)

// RecommendedQty suggests an order size of twice the reorder threshold, with
// a floor of 10 units so slow movers still get a meaningful batch.
func RecommendedQty(p domain.Product) int {
	if qty := 2 * p.ReorderThreshold; qty > 10 {
		return qty
	}
	return 10
}

// ProfitMarginPct is the markup over cost as a percentage, rounded to one
// decimal. Undefined (nil) when the cost price is zero.
func ProfitMarginPct(p domain.Product) *float64 {
	if p.CostPrice == 0 {
		return nil
	}
	pct := (p.SellingPrice - p.CostPrice) / p.CostPrice * 100
	pct = math.Round(pct*10) / 10
	return &pct
}

// Urgency classifies a low-stock product. Critical means stock has fallen to
// half the threshold or below; a zero threshold is critical only when the
// shelf is empty.
func Urgency(p domain.Product) string {
	if p.ReorderThreshold == 0 {
		if p.Quantity == 0 {
			return domain.UrgencyCritical
		}
		return domain.UrgencyLow
	}
	if float64(p.Quantity)/float64(p.ReorderThreshold) <= 0.5 {
		return domain.UrgencyCritical
	}
	return domain.UrgencyLow
}

// Suggestions proposes restock orders for a branch's low-stock products,
// most profitable per unit first.
func Suggestions(products []domain.Product, branchID string) []domain.RestockSuggestion {
	low := LowStock(ForBranch(products, branchID))

	out := make([]domain.RestockSuggestion, 0, len(low))
	for _, p := range low {
		qty := RecommendedQty(p)
		out = append(out, domain.RestockSuggestion{
			Product:         p,
			RecommendedQty:  qty,
			RestockCost:     p.CostPrice * float64(qty),
			PotentialProfit: (p.SellingPrice - p.CostPrice) * float64(qty),
			ProfitMarginPct: ProfitMarginPct(p),
			LowStock:        true,
			Urgency:         Urgency(p),
		})
	}

	slices.SortStableFunc(out, func(a, b domain.RestockSuggestion) int {
		ua := a.Product.SellingPrice - a.Product.CostPrice
		ub := b.Product.SellingPrice - b.Product.CostPrice
		switch {
		case ub > ua:
			return 1
		case ub < ua:
			return -1
		default:
			return 0
		}
	})
	return out
}
