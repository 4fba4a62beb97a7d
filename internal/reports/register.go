package reports

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"dukapos/backend/internal/domain"
)

// Register periods.
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodAll   = "all"
)

// PeriodStart returns the opening instant of the period containing now, in
// now's location. The week starts on Sunday. Unknown periods fall back to
// today.
func PeriodStart(period string, now time.Time) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch period {
	case PeriodWeek:
		return midnight.AddDate(0, 0, -int(now.Weekday()))
	case PeriodMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	default:
		return midnight
	}
}

func inWindow(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

// CashRegister balances the drawer for one branch and period. Sales in the
// window are split by payment mode; the credit bucket additionally carries
// every unpaid credit record of the branch, regardless of period, because
// the money is still outstanding. Received money is cash plus M-Pesa, and
// the variance is what was rung up but not yet received.
func CashRegister(sales []domain.Sale, credits []domain.CreditSale, branchID, period string, now time.Time) domain.CashRegisterReport {
	from := PeriodStart(period, now)

	report := domain.CashRegisterReport{
		BranchID: branchID,
		Period:   period,
		From:     from,
		To:       now,
	}

	lines := make([]domain.RegisterLine, 0)
	for _, s := range ForBranch(sales, branchID) {
		if !inWindow(s.Date, from, now) {
			continue
		}
		switch s.PaymentMode {
		case domain.PaymentCash:
			report.CashTotal += s.Revenue
		case domain.PaymentMpesa:
			report.MpesaTotal += s.Revenue
		case domain.PaymentCredit:
			report.CreditTotal += s.Revenue
		}
		report.TotalRevenue += s.Revenue
		lines = append(lines, domain.RegisterLine{
			Type:        "sale",
			ID:          s.ID,
			Date:        s.Date,
			Description: fmt.Sprintf("%s (%dx)", s.ProductName, s.Quantity),
			Amount:      s.Revenue,
			PaymentMode: s.PaymentMode,
		})
	}

	for _, c := range ForBranch(credits, branchID) {
		if c.IsPaid {
			continue
		}
		report.CreditTotal += c.Amount
		lines = append(lines, domain.RegisterLine{
			Type:        "credit",
			ID:          c.ID,
			Date:        c.CreatedDate,
			Description: "Credit: " + c.CreditName,
			Amount:      c.Amount,
			PaymentMode: domain.PaymentCredit,
			DueDate:     c.DueDate.Format(dayKey),
		})
	}

	slices.SortStableFunc(lines, func(a, b domain.RegisterLine) int {
		return b.Date.Compare(a.Date)
	})

	report.TotalReceived = report.CashTotal + report.MpesaTotal
	report.Variance = report.TotalRevenue - report.TotalReceived
	report.Reconciled = report.Variance == 0
	report.Transactions = lines
	return report
}

// Reconciliation filters. Settled means money changed hands at sale time;
// credited covers credit-mode sales and standalone credit records.
const (
	FilterAll      = "all"
	FilterSettled  = "settled"
	FilterCredited = "credited"
)

// Reconciliation lists a branch's sales and credit records under a status
// filter and an optional case-insensitive name search, newest first. Totals
// cover the whole branch, not just the filtered view; unpaid credit records
// count toward the credited total.
func Reconciliation(sales []domain.Sale, credits []domain.CreditSale, branchID, filter, search string) domain.ReconciliationReport {
	report := domain.ReconciliationReport{BranchID: branchID}
	needle := strings.ToLower(strings.TrimSpace(search))

	records := make([]domain.ReconciliationRecord, 0)
	for _, s := range ForBranch(sales, branchID) {
		switch s.PaymentStatus {
		case domain.StatusSettled:
			report.SettledTotal += s.Revenue
		case domain.StatusCredited:
			report.CreditedTotal += s.Revenue
		}
		if filter == FilterSettled && s.PaymentStatus != domain.StatusSettled {
			continue
		}
		if filter == FilterCredited && s.PaymentStatus != domain.StatusCredited {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(s.ProductName), needle) {
			continue
		}
		sale := s
		records = append(records, domain.ReconciliationRecord{Type: "sale", Sale: &sale})
	}

	for _, c := range ForBranch(credits, branchID) {
		if !c.IsPaid {
			report.CreditedTotal += c.Amount
		}
		if filter == FilterSettled {
			continue
		}
		if filter == FilterCredited && c.IsPaid {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(c.CreditName), needle) {
			continue
		}
		credit := c
		records = append(records, domain.ReconciliationRecord{Type: "credit", CreditSale: &credit})
	}

	slices.SortStableFunc(records, func(a, b domain.ReconciliationRecord) int {
		return recordDate(b).Compare(recordDate(a))
	})
	report.Records = records
	return report
}

func recordDate(r domain.ReconciliationRecord) time.Time {
	if r.Sale != nil {
		return r.Sale.Date
	}
	return r.CreditSale.CreatedDate
}
