package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dukapos/backend/internal/domain"
	"dukapos/backend/internal/reports"
	"dukapos/backend/internal/store"
)

func validFrequency(f domain.RecurringFrequency) bool {
	switch f {
	case domain.RecurringDaily, domain.RecurringWeekly, domain.RecurringMonthly, domain.RecurringYearly:
		return true
	}
	return false
}

func parseDay(raw string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: dates must be YYYY-MM-DD", store.ErrInvalidInput)
	}
	return t, nil
}

func (s *Service) ListExpenses(ctx context.Context, branchID string) []domain.Expense {
	branch := s.resolveBranch(branchID)
	return reports.ForBranch(s.store.Expenses(), branch)
}

func (s *Service) ExpenseReport(ctx context.Context, branchID string) domain.ExpenseReport {
	branch := s.resolveBranch(branchID)
	return reports.ExpensesByMonth(s.store.Expenses(), branch)
}

func (s *Service) CreateExpense(ctx context.Context, req domain.ExpenseCreateRequest) (domain.Expense, error) {
	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" || req.Amount <= 0 {
		return domain.Expense{}, store.ErrInvalidInput
	}

	date := s.now()
	if strings.TrimSpace(req.Date) != "" {
		parsed, err := parseDay(req.Date)
		if err != nil {
			return domain.Expense{}, err
		}
		date = parsed
	}

	expense := domain.Expense{
		Category:    req.Category,
		Amount:      req.Amount,
		Date:        date,
		Notes:       strings.TrimSpace(req.Notes),
		BranchID:    s.resolveBranch(req.BranchID),
		IsRecurring: req.IsRecurring,
	}

	if req.IsRecurring {
		if !validFrequency(req.RecurringFrequency) {
			return domain.Expense{}, fmt.Errorf("%w: recurring expenses need a valid frequency", store.ErrInvalidInput)
		}
		expense.RecurringFrequency = req.RecurringFrequency
		if strings.TrimSpace(req.RecurringEndDate) != "" {
			end, err := parseDay(req.RecurringEndDate)
			if err != nil {
				return domain.Expense{}, err
			}
			expense.RecurringEndDate = &end
		}
	} else if req.RecurringFrequency != "" {
		return domain.Expense{}, fmt.Errorf("%w: frequency only applies to recurring expenses", store.ErrInvalidInput)
	}

	return s.store.AddExpense(expense), nil
}

func (s *Service) UpdateExpense(ctx context.Context, id string, req domain.ExpenseUpdateRequest) (domain.Expense, error) {
	existing, err := s.store.ExpenseByID(strings.TrimSpace(id))
	if err != nil {
		return domain.Expense{}, err
	}

	updated := existing
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			return domain.Expense{}, store.ErrInvalidInput
		}
		updated.Category = category
	}
	if req.Amount != nil {
		if *req.Amount <= 0 {
			return domain.Expense{}, store.ErrInvalidInput
		}
		updated.Amount = *req.Amount
	}
	if req.Date != nil {
		date, err := parseDay(*req.Date)
		if err != nil {
			return domain.Expense{}, err
		}
		updated.Date = date
	}
	if req.Notes != nil {
		updated.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.IsRecurring != nil {
		updated.IsRecurring = *req.IsRecurring
		if !updated.IsRecurring {
			updated.RecurringFrequency = ""
			updated.RecurringEndDate = nil
		}
	}
	if req.RecurringFrequency != nil {
		if !updated.IsRecurring || !validFrequency(*req.RecurringFrequency) {
			return domain.Expense{}, store.ErrInvalidInput
		}
		updated.RecurringFrequency = *req.RecurringFrequency
	}
	if req.RecurringEndDate != nil {
		if !updated.IsRecurring {
			return domain.Expense{}, store.ErrInvalidInput
		}
		if strings.TrimSpace(*req.RecurringEndDate) == "" {
			updated.RecurringEndDate = nil
		} else {
			end, err := parseDay(*req.RecurringEndDate)
			if err != nil {
				return domain.Expense{}, err
			}
			updated.RecurringEndDate = &end
		}
	}
	if updated.IsRecurring && !validFrequency(updated.RecurringFrequency) {
		return domain.Expense{}, fmt.Errorf("%w: recurring expenses need a valid frequency", store.ErrInvalidInput)
	}

	return s.store.UpdateExpense(updated)
}

func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	return s.store.DeleteExpense(strings.TrimSpace(id))
}

func (s *Service) ListExpenseCategories(ctx context.Context) []domain.ExpenseCategory {
	return s.store.ExpenseCategories()
}

func (s *Service) CreateExpenseCategory(ctx context.Context, name string) (domain.ExpenseCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ExpenseCategory{}, store.ErrInvalidInput
	}
	for _, c := range s.store.ExpenseCategories() {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return s.store.AddExpenseCategory(name), nil
}
