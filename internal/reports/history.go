package reports

import (
	"slices"
	"time"

	"dukapos/backend/internal/domain"
)

// SalesHistory lists a branch's sales for a period (today, week or all) with
// running totals. Input order is preserved, which is newest first as the
// store records them.
func SalesHistory(sales []domain.Sale, branchID, period string, now time.Time) domain.SalesHistoryReport {
	report := domain.SalesHistoryReport{
		BranchID: branchID,
		Period:   period,
		Sales:    make([]domain.Sale, 0),
	}

	var from time.Time
	if period != PeriodAll {
		from = PeriodStart(period, now)
	}

	for _, s := range ForBranch(sales, branchID) {
		if period != PeriodAll && !inWindow(s.Date, from, now) {
			continue
		}
		report.Sales = append(report.Sales, s)
		report.TotalRevenue += s.Revenue
		report.TotalProfit += s.Profit
	}
	return report
}

// ExpensesByMonth groups a branch's expenses into calendar months, newest
// month first, with per-month and overall totals.
func ExpensesByMonth(expenses []domain.Expense, branchID string) domain.ExpenseReport {
	report := domain.ExpenseReport{
		BranchID: branchID,
		Months:   make([]domain.ExpenseMonthGroup, 0),
	}

	type monthBucket struct {
		start time.Time
		group domain.ExpenseMonthGroup
	}
	buckets := make(map[string]*monthBucket)

	for _, e := range ForBranch(expenses, branchID) {
		report.Total += e.Amount
		start := time.Date(e.Date.Year(), e.Date.Month(), 1, 0, 0, 0, 0, e.Date.Location())
		key := start.Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			b = &monthBucket{
				start: start,
				group: domain.ExpenseMonthGroup{Month: start.Format("January 2006")},
			}
			buckets[key] = b
		}
		b.group.Total += e.Amount
		b.group.Items = append(b.group.Items, e)
	}

	ordered := make([]*monthBucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	slices.SortFunc(ordered, func(a, b *monthBucket) int {
		return b.start.Compare(a.start)
	})
	for _, b := range ordered {
		report.Months = append(report.Months, b.group)
	}
	return report
}

// DamagedSummary totals a branch's damaged-goods log.
func DamagedSummary(items []domain.DamagedItem, branchID string) domain.DamagedGoodsSummary {
	scoped := ForBranch(items, branchID)
	summary := domain.DamagedGoodsSummary{
		BranchID: branchID,
		Records:  len(scoped),
		Items:    scoped,
	}
	for _, item := range scoped {
		summary.TotalUnits += item.Quantity
	}
	return summary
}
