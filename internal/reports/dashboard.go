package reports

import (
	"slices"
	"time"

	"dukapos/backend/internal/domain"
)

const dayKey = "2006-01-02"

// InventoryValue is the retail value of stock on hand.
func InventoryValue(products []domain.Product) float64 {
	var total float64
	for _, p := range products {
		total += p.SellingPrice * float64(p.Quantity)
	}
	return total
}

// ExpectedProfit is the margin locked in the current stock if all of it sells
// at the listed price.
func ExpectedProfit(products []domain.Product) float64 {
	var total float64
	for _, p := range products {
		total += (p.SellingPrice - p.CostPrice) * float64(p.Quantity)
	}
	return total
}

// TodayRevenue sums revenue for sales dated on now's UTC calendar day. Both
// sides normalize to UTC so zone differences between the clock and stored
// timestamps cannot split a day.
func TodayRevenue(sales []domain.Sale, now time.Time) float64 {
	today := now.UTC().Format(dayKey)
	var total float64
	for _, s := range sales {
		if s.Date.UTC().Format(dayKey) == today {
			total += s.Revenue
		}
	}
	return total
}

// LowStock returns the products at or below their reorder threshold, lowest
// quantity first. The boundary is inclusive: quantity equal to the threshold
// counts as low.
func LowStock(products []domain.Product) []domain.Product {
	out := make([]domain.Product, 0)
	for _, p := range products {
		if p.Quantity <= p.ReorderThreshold {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Product) int {
		return a.Quantity - b.Quantity
	})
	return out
}

func LowStockCount(products []domain.Product) int {
	return len(LowStock(products))
}

// Trend builds one revenue/profit point per calendar day for the last days
// days ending today, oldest first. Days without sales appear as zero points.
// A sale belongs to a day when its timestamp's UTC calendar date matches.
func Trend(sales []domain.Sale, days int, now time.Time) []domain.TrendPoint {
	if days <= 0 {
		return []domain.TrendPoint{}
	}

	now = now.UTC()
	byDay := make(map[string]*domain.TrendPoint, days)
	points := make([]domain.TrendPoint, days)
	for i := 0; i < days; i++ {
		day := now.AddDate(0, 0, -(days - 1 - i))
		points[i] = domain.TrendPoint{
			Date:  day.Format(dayKey),
			Label: day.Format("Mon"),
		}
		byDay[points[i].Date] = &points[i]
	}

	for _, s := range sales {
		if point, ok := byDay[s.Date.UTC().Format(dayKey)]; ok {
			point.Revenue += s.Revenue
			point.Profit += s.Profit
		}
	}
	return points
}

// Dashboard assembles the landing-screen KPIs for one branch, with a
// seven-day trend.
func Dashboard(products []domain.Product, sales []domain.Sale, branchID string, now time.Time) domain.DashboardReport {
	scopedProducts := ForBranch(products, branchID)
	scopedSales := ForBranch(sales, branchID)

	return domain.DashboardReport{
		BranchID:            branchID,
		TotalInventoryValue: InventoryValue(scopedProducts),
		ExpectedProfit:      ExpectedProfit(scopedProducts),
		TodayRevenue:        TodayRevenue(scopedSales, now),
		LowStockItems:       LowStockCount(scopedProducts),
		Trend:               Trend(scopedSales, 7, now),
	}
}
