package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"dukapos/backend/internal/domain"
	"dukapos/backend/internal/reports"
	"dukapos/backend/internal/store"
)

// creditDueDays is the default repayment window when a due date is omitted.
const creditDueDays = 7

func validMpesaPhone(phone string) bool {
	return strings.HasPrefix(phone, "254") && len(phone) >= 12
}

// RecordSale turns an order into one Sale record per line, decrementing stock
// as it goes. Every line is validated against available stock before any
// record is written, so a rejected order leaves the store untouched.
func (s *Service) RecordSale(ctx context.Context, req domain.SaleCreateRequest) (domain.SaleCreateResponse, error) {
	if len(req.Items) == 0 {
		return domain.SaleCreateResponse{}, store.ErrInvalidInput
	}

	switch req.PaymentMode {
	case domain.PaymentCash:
	case domain.PaymentMpesa:
		if !validMpesaPhone(strings.TrimSpace(req.MpesaPhone)) {
			return domain.SaleCreateResponse{}, fmt.Errorf("%w: mpesa phone must be 254 followed by 9 digits", store.ErrInvalidInput)
		}
	case domain.PaymentCredit:
		if strings.TrimSpace(req.CreditName) == "" {
			return domain.SaleCreateResponse{}, fmt.Errorf("%w: credit holder name required", store.ErrInvalidInput)
		}
	default:
		return domain.SaleCreateResponse{}, fmt.Errorf("%w: unsupported payment mode %q", store.ErrInvalidInput, req.PaymentMode)
	}

	branch := s.resolveBranch(req.BranchID)

	type pricedLine struct {
		product domain.Product
		qty     int
	}
	lines := make([]pricedLine, 0, len(req.Items))
	needed := make(map[string]int, len(req.Items))

	for _, item := range req.Items {
		id := strings.TrimSpace(item.ProductID)
		if id == "" || item.Quantity < 1 {
			return domain.SaleCreateResponse{}, store.ErrInvalidInput
		}
		product, err := s.store.ProductByID(id)
		if err != nil {
			return domain.SaleCreateResponse{}, fmt.Errorf("product %s: %w", id, err)
		}
		needed[id] += item.Quantity
		if needed[id] > product.Quantity {
			return domain.SaleCreateResponse{}, fmt.Errorf("%w: %s has %d units", store.ErrInsufficientStock, product.Name, product.Quantity)
		}
		lines = append(lines, pricedLine{product: product, qty: item.Quantity})
	}

	status := domain.StatusSettled
	if req.PaymentMode == domain.PaymentCredit {
		status = domain.StatusCredited
	}

	resp := domain.SaleCreateResponse{Sales: make([]domain.Sale, 0, len(lines))}
	for _, line := range lines {
		sale := s.store.AddSale(domain.Sale{
			ProductID:     line.product.ID,
			ProductName:   line.product.Name,
			Quantity:      line.qty,
			Revenue:       line.product.SellingPrice * float64(line.qty),
			Profit:        (line.product.SellingPrice - line.product.CostPrice) * float64(line.qty),
			BranchID:      branch,
			PaymentMode:   req.PaymentMode,
			MpesaPhone:    strings.TrimSpace(req.MpesaPhone),
			PaymentStatus: status,
			CreditName:    strings.TrimSpace(req.CreditName),
			CreditNotes:   strings.TrimSpace(req.CreditNotes),
		})
		resp.Sales = append(resp.Sales, sale)
		resp.TotalRevenue += sale.Revenue
		resp.TotalProfit += sale.Profit
	}

	if req.PaymentMode == domain.PaymentCredit {
		s.store.AddCreditSale(domain.CreditSale{
			SaleID:     resp.Sales[0].ID,
			CreditName: strings.TrimSpace(req.CreditName),
			Amount:     resp.TotalRevenue,
			DueDate:    s.now().AddDate(0, 0, creditDueDays),
			Notes:      strings.TrimSpace(req.CreditNotes),
			BranchID:   branch,
		})
	}

	s.log.WithFields(logrus.Fields{
		"branch":  branch,
		"lines":   len(resp.Sales),
		"revenue": resp.TotalRevenue,
		"mode":    req.PaymentMode,
	}).Info("sale recorded")
	return resp, nil
}

func (s *Service) SalesHistory(ctx context.Context, branchID, period string) (domain.SalesHistoryReport, error) {
	switch period {
	case "":
		period = reports.PeriodAll
	case reports.PeriodToday, reports.PeriodWeek, reports.PeriodAll:
	default:
		return domain.SalesHistoryReport{}, fmt.Errorf("%w: unknown period %q", store.ErrInvalidInput, period)
	}
	branch := s.resolveBranch(branchID)
	return reports.SalesHistory(s.store.Sales(), branch, period, s.now()), nil
}

func (s *Service) CashRegister(ctx context.Context, branchID, period string) (domain.CashRegisterReport, error) {
	switch period {
	case "":
		period = reports.PeriodToday
	case reports.PeriodToday, reports.PeriodWeek, reports.PeriodMonth:
	default:
		return domain.CashRegisterReport{}, fmt.Errorf("%w: unknown period %q", store.ErrInvalidInput, period)
	}
	branch := s.resolveBranch(branchID)
	return reports.CashRegister(s.store.Sales(), s.store.CreditSales(), branch, period, s.now()), nil
}

func (s *Service) Reconciliation(ctx context.Context, branchID, filter, search string) (domain.ReconciliationReport, error) {
	switch filter {
	case "":
		filter = reports.FilterAll
	case reports.FilterAll, reports.FilterSettled, reports.FilterCredited:
	default:
		return domain.ReconciliationReport{}, fmt.Errorf("%w: unknown filter %q", store.ErrInvalidInput, filter)
	}
	branch := s.resolveBranch(branchID)
	return reports.Reconciliation(s.store.Sales(), s.store.CreditSales(), branch, filter, search), nil
}

// --- credit sales ---

func (s *Service) ListCreditSales(ctx context.Context, branchID string) []domain.CreditSale {
	branch := s.resolveBranch(branchID)
	return reports.ForBranch(s.store.CreditSales(), branch)
}

func (s *Service) CreateCreditSale(ctx context.Context, req domain.CreditSaleCreateRequest) (domain.CreditSale, error) {
	req.CreditName = strings.TrimSpace(req.CreditName)
	if req.CreditName == "" || req.Amount <= 0 {
		return domain.CreditSale{}, store.ErrInvalidInput
	}

	dueDate := s.now().AddDate(0, 0, creditDueDays)
	if raw := strings.TrimSpace(req.DueDate); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return domain.CreditSale{}, fmt.Errorf("%w: due date must be YYYY-MM-DD", store.ErrInvalidInput)
		}
		dueDate = parsed
	}

	credit := s.store.AddCreditSale(domain.CreditSale{
		SaleID:     strings.TrimSpace(req.SaleID),
		CreditName: req.CreditName,
		Amount:     req.Amount,
		DueDate:    dueDate,
		Notes:      strings.TrimSpace(req.Notes),
		BranchID:   s.resolveBranch(req.BranchID),
	})
	return credit, nil
}

func (s *Service) MarkCreditSalePaid(ctx context.Context, id string) (domain.CreditSale, error) {
	credit, err := s.store.MarkCreditSalePaid(strings.TrimSpace(id))
	if err != nil {
		return domain.CreditSale{}, err
	}
	s.log.WithFields(logrus.Fields{
		"credit_id": credit.ID,
		"amount":    credit.Amount,
	}).Info("credit sale settled")
	return credit, nil
}

func (s *Service) DeleteCreditSale(ctx context.Context, id string) error {
	return s.store.DeleteCreditSale(strings.TrimSpace(id))
}
