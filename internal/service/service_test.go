package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"dukapos/backend/internal/domain"
	"dukapos/backend/internal/store"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st := store.NewSeeded()
	svc := New(st, nil, quietLogger(), "1")
	svc.WithClock(func() time.Time {
		return time.Date(2026, 2, 23, 12, 0, 0, 0, time.UTC)
	})
	return svc, st
}

func adminCtx() context.Context {
	return WithActor(context.Background(), domain.Actor{UserID: "1", Role: domain.RoleAdmin, BranchID: "1"})
}

func staffCtx() context.Context {
	return WithActor(context.Background(), domain.Actor{UserID: "3", Role: domain.RoleStaff, BranchID: "2"})
}

func TestLoginValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Login(ctx, domain.LoginRequest{Email: "", Password: "x"}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("empty email: %v", err)
	}
	if _, err := svc.Login(ctx, domain.LoginRequest{Email: "john@shop.co.ke", Password: ""}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("empty password: %v", err)
	}
	if _, err := svc.Login(ctx, domain.LoginRequest{Email: "ghost@shop.co.ke", Password: "x"}); !errors.Is(err, store.ErrInvalidCredentials) {
		t.Fatalf("unknown email: %v", err)
	}

	user, err := svc.Login(ctx, domain.LoginRequest{Email: "JOHN@shop.co.ke", Password: "anything"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("role = %s", user.Role)
	}
}

func TestCreateProductRequiresAdmin(t *testing.T) {
	svc, _ := newTestService(t)
	req := domain.ProductCreateRequest{Name: "Bread 400g", CostPrice: 40, SellingPrice: 55, Quantity: 20, ReorderThreshold: 10}

	if _, err := svc.CreateProduct(context.Background(), req); !errors.Is(err, ErrForbidden) {
		t.Fatalf("no actor: %v", err)
	}
	if _, err := svc.CreateProduct(staffCtx(), req); !errors.Is(err, ErrForbidden) {
		t.Fatalf("staff: %v", err)
	}

	product, err := svc.CreateProduct(adminCtx(), req)
	if err != nil {
		t.Fatalf("admin: %v", err)
	}
	if product.BranchID != "1" {
		t.Fatalf("branch defaulted to %q", product.BranchID)
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newTestService(t)
	cases := []domain.ProductCreateRequest{
		{Name: "  ", SellingPrice: 10},
		{Name: "Bad", CostPrice: -1},
		{Name: "Bad", SellingPrice: -1},
		{Name: "Bad", Quantity: -1},
		{Name: "Bad", ReorderThreshold: -1},
	}
	for i, req := range cases {
		if _, err := svc.CreateProduct(adminCtx(), req); !errors.Is(err, store.ErrInvalidInput) {
			t.Fatalf("case %d: %v", i, err)
		}
	}
}

func TestUpdateProductMergesFields(t *testing.T) {
	svc, _ := newTestService(t)
	price := 700.0
	updated, err := svc.UpdateProduct(adminCtx(), "1", domain.ProductUpdateRequest{SellingPrice: &price})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.SellingPrice != 700 {
		t.Fatalf("selling price = %v", updated.SellingPrice)
	}
	if updated.Name != "Rice 5kg" || updated.CostPrice != 450 {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestRecordSaleCash(t *testing.T) {
	svc, st := newTestService(t)
	resp, err := svc.RecordSale(staffCtx(), domain.SaleCreateRequest{
		Items:       []domain.SaleLine{{ProductID: "1", Quantity: 2}, {ProductID: "2", Quantity: 1}},
		PaymentMode: domain.PaymentCash,
		BranchID:    "1",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(resp.Sales) != 2 {
		t.Fatalf("sales = %d", len(resp.Sales))
	}
	if resp.TotalRevenue != 650*2+250 {
		t.Fatalf("revenue = %v", resp.TotalRevenue)
	}
	if resp.TotalProfit != 200*2+70 {
		t.Fatalf("profit = %v", resp.TotalProfit)
	}
	if resp.Sales[0].PaymentStatus != domain.StatusSettled {
		t.Fatalf("status = %s", resp.Sales[0].PaymentStatus)
	}

	rice, _ := st.ProductByID("1")
	if rice.Quantity != 43 {
		t.Fatalf("rice stock = %d, want 43", rice.Quantity)
	}
}

func TestRecordSaleInsufficientStock(t *testing.T) {
	svc, st := newTestService(t)
	before := len(st.Sales())

	_, err := svc.RecordSale(staffCtx(), domain.SaleCreateRequest{
		Items:       []domain.SaleLine{{ProductID: "5", Quantity: 6}},
		PaymentMode: domain.PaymentCash,
		BranchID:    "1",
	})
	if !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("err = %v", err)
	}
	if len(st.Sales()) != before {
		t.Fatal("rejected order must not record sales")
	}
	tea, _ := st.ProductByID("5")
	if tea.Quantity != 5 {
		t.Fatalf("stock touched: %d", tea.Quantity)
	}
}

func TestRecordSaleCumulativeLines(t *testing.T) {
	svc, _ := newTestService(t)
	// Two lines for the same product: together they exceed stock.
	_, err := svc.RecordSale(staffCtx(), domain.SaleCreateRequest{
		Items:       []domain.SaleLine{{ProductID: "5", Quantity: 3}, {ProductID: "5", Quantity: 3}},
		PaymentMode: domain.PaymentCash,
		BranchID:    "1",
	})
	if !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("err = %v", err)
	}
}

func TestRecordSaleMpesaPhone(t *testing.T) {
	svc, _ := newTestService(t)
	base := domain.SaleCreateRequest{
		Items:       []domain.SaleLine{{ProductID: "1", Quantity: 1}},
		PaymentMode: domain.PaymentMpesa,
		BranchID:    "1",
	}

	for _, phone := range []string{"", "254", "0712345678", "25471234"} {
		req := base
		req.MpesaPhone = phone
		if _, err := svc.RecordSale(staffCtx(), req); !errors.Is(err, store.ErrInvalidInput) {
			t.Fatalf("phone %q: %v", phone, err)
		}
	}

	req := base
	req.MpesaPhone = "254712345678"
	if _, err := svc.RecordSale(staffCtx(), req); err != nil {
		t.Fatalf("valid phone: %v", err)
	}
}

func TestRecordSaleCreditCreatesCreditRecord(t *testing.T) {
	svc, st := newTestService(t)

	_, err := svc.RecordSale(staffCtx(), domain.SaleCreateRequest{
		Items:       []domain.SaleLine{{ProductID: "1", Quantity: 1}},
		PaymentMode: domain.PaymentCredit,
		BranchID:    "1",
	})
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("missing credit name: %v", err)
	}

	resp, err := svc.RecordSale(staffCtx(), domain.SaleCreateRequest{
		Items:       []domain.SaleLine{{ProductID: "1", Quantity: 2}},
		PaymentMode: domain.PaymentCredit,
		CreditName:  "Atieno",
		BranchID:    "1",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if resp.Sales[0].PaymentStatus != domain.StatusCredited {
		t.Fatalf("status = %s", resp.Sales[0].PaymentStatus)
	}

	credits := st.CreditSales()
	if len(credits) != 1 {
		t.Fatalf("credit records = %d", len(credits))
	}
	credit := credits[0]
	if credit.CreditName != "Atieno" || credit.Amount != 1300 || credit.IsPaid {
		t.Fatalf("credit = %+v", credit)
	}
	if credit.SaleID != resp.Sales[0].ID {
		t.Fatalf("credit not linked to sale: %q", credit.SaleID)
	}
	wantDue := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	if !credit.DueDate.Equal(wantDue) {
		t.Fatalf("due date = %v, want %v", credit.DueDate, wantDue)
	}
}

func TestSwitchBranchRules(t *testing.T) {
	svc, st := newTestService(t)

	if _, err := svc.SwitchBranch(staffCtx(), "1"); !errors.Is(err, ErrBranchNotAllowed) {
		t.Fatalf("staff to foreign branch: %v", err)
	}
	if _, err := svc.SwitchBranch(staffCtx(), "2"); err != nil {
		t.Fatalf("staff to home branch: %v", err)
	}
	if got := st.CurrentBranch(); got != "2" {
		t.Fatalf("current branch = %q", got)
	}

	if _, err := svc.SwitchBranch(adminCtx(), "3"); err != nil {
		t.Fatalf("admin: %v", err)
	}
	if _, err := svc.SwitchBranch(adminCtx(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("unknown branch: %v", err)
	}
}

func TestBulkRestock(t *testing.T) {
	svc, st := newTestService(t)

	resp, err := svc.BulkRestock(adminCtx(), domain.BulkRestockRequest{ProductIDs: []string{"2", "5"}})
	if err != nil {
		t.Fatalf("bulk: %v", err)
	}
	if len(resp.Restocked) != 2 {
		t.Fatalf("restocked = %d", len(resp.Restocked))
	}
	// Sugar: threshold 15 -> +30; Tea: threshold 12 -> +24.
	sugar, _ := st.ProductByID("2")
	if sugar.Quantity != 12+30 {
		t.Fatalf("sugar stock = %d", sugar.Quantity)
	}
	tea, _ := st.ProductByID("5")
	if tea.Quantity != 5+24 {
		t.Fatalf("tea stock = %d", tea.Quantity)
	}
	if resp.TotalCost != 180*30+280*24 {
		t.Fatalf("total cost = %v", resp.TotalCost)
	}

	if _, err := svc.BulkRestock(adminCtx(), domain.BulkRestockRequest{ProductIDs: []string{"2", "missing"}}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("unknown id: %v", err)
	}
}

func TestCreateExpenseRecurringRules(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := staffCtx()

	if _, err := svc.CreateExpense(ctx, domain.ExpenseCreateRequest{Category: "Rent", Amount: 0}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("zero amount: %v", err)
	}
	if _, err := svc.CreateExpense(ctx, domain.ExpenseCreateRequest{Category: "Rent", Amount: 100, IsRecurring: true}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("recurring without frequency: %v", err)
	}
	if _, err := svc.CreateExpense(ctx, domain.ExpenseCreateRequest{Category: "Rent", Amount: 100, RecurringFrequency: domain.RecurringMonthly}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("frequency without recurring: %v", err)
	}

	expense, err := svc.CreateExpense(ctx, domain.ExpenseCreateRequest{
		Category:           "Rent",
		Amount:             15000,
		Date:               "2026-02-01",
		IsRecurring:        true,
		RecurringFrequency: domain.RecurringMonthly,
		BranchID:           "2",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if expense.Date.Format("2006-01-02") != "2026-02-01" || expense.BranchID != "2" {
		t.Fatalf("expense = %+v", expense)
	}
}

func TestUpdateExpenseClearsRecurrence(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := staffCtx()

	expense, err := svc.CreateExpense(ctx, domain.ExpenseCreateRequest{
		Category:           "Utilities",
		Amount:             2000,
		IsRecurring:        true,
		RecurringFrequency: domain.RecurringWeekly,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	off := false
	updated, err := svc.UpdateExpense(ctx, expense.ID, domain.ExpenseUpdateRequest{IsRecurring: &off})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.IsRecurring || updated.RecurringFrequency != "" || updated.RecurringEndDate != nil {
		t.Fatalf("recurrence not cleared: %+v", updated)
	}
}

func TestCreateUserChecks(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.CreateUser(staffCtx(), domain.UserCreateRequest{Name: "X", Email: "x@shop.co.ke", Role: domain.RoleStaff, BranchID: "1"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("staff creating users: %v", err)
	}
	if _, err := svc.CreateUser(adminCtx(), domain.UserCreateRequest{Name: "Dup", Email: "MARY@shop.co.ke", Role: domain.RoleStaff, BranchID: "1"}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("duplicate email: %v", err)
	}
	if _, err := svc.CreateUser(adminCtx(), domain.UserCreateRequest{Name: "Bad", Email: "bad@shop.co.ke", Role: "owner", BranchID: "1"}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("bad role: %v", err)
	}
	if _, err := svc.CreateUser(adminCtx(), domain.UserCreateRequest{Name: "Bad", Email: "bad@shop.co.ke", Role: domain.RoleStaff, BranchID: "99"}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("unknown branch: %v", err)
	}

	user, err := svc.CreateUser(adminCtx(), domain.UserCreateRequest{Name: "Grace Njeri", Email: "grace@shop.co.ke", Role: domain.RoleStaff, BranchID: "3"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.ID == "" || user.BranchID != "3" {
		t.Fatalf("user = %+v", user)
	}
}

func TestDeleteUserSelfGuard(t *testing.T) {
	svc, _ := newTestService(t)
	if err := svc.DeleteUser(adminCtx(), "1"); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("self delete: %v", err)
	}
	if err := svc.DeleteUser(adminCtx(), "2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestThemeRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	initial := svc.Theme(ctx)
	if initial.Theme != "emerald" || initial.Persisted {
		t.Fatalf("initial = %+v", initial)
	}

	if _, err := svc.SetTheme(ctx, domain.ThemeUpdateRequest{Theme: "neon"}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("invalid theme: %v", err)
	}

	set, err := svc.SetTheme(ctx, domain.ThemeUpdateRequest{Theme: "purple"})
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if set.Theme != "purple" {
		t.Fatalf("set theme = %q", set.Theme)
	}
	if got := svc.Theme(ctx); got.Theme != "purple" {
		t.Fatalf("round trip = %q", got.Theme)
	}
}

func TestRecordDamagedItemSnapshotsName(t *testing.T) {
	svc, st := newTestService(t)

	item, err := svc.RecordDamagedItem(staffCtx(), domain.DamagedItemCreateRequest{
		ProductID: "3",
		Quantity:  2,
		Reason:    "leaking bottles",
		BranchID:  "1",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if item.ProductName != "Cooking Oil 1L" {
		t.Fatalf("snapshot name = %q", item.ProductName)
	}
	// The log never touches stock.
	oil, _ := st.ProductByID("3")
	if oil.Quantity != 8 {
		t.Fatalf("stock = %d", oil.Quantity)
	}

	if _, err := svc.RecordDamagedItem(staffCtx(), domain.DamagedItemCreateRequest{ProductID: "3", Quantity: 0, Reason: "x"}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("zero qty: %v", err)
	}
}

func TestSalesHistoryPeriodValidation(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.SalesHistory(staffCtx(), "1", "year"); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("bad period: %v", err)
	}
	report, err := svc.SalesHistory(staffCtx(), "1", "")
	if err != nil {
		t.Fatalf("default period: %v", err)
	}
	if report.Period != "all" || len(report.Sales) != 5 {
		t.Fatalf("report = %+v", report)
	}
}

func TestCreateExpenseCategoryDedup(t *testing.T) {
	svc, st := newTestService(t)
	before := len(st.ExpenseCategories())

	existing, err := svc.CreateExpenseCategory(staffCtx(), "rent")
	if err != nil {
		t.Fatalf("dedup: %v", err)
	}
	if existing.ID != "1" {
		t.Fatalf("expected the seeded Rent category, got %+v", existing)
	}
	if len(st.ExpenseCategories()) != before {
		t.Fatal("duplicate category added")
	}

	added, err := svc.CreateExpenseCategory(staffCtx(), "Security")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if added.Name != "Security" || len(st.ExpenseCategories()) != before+1 {
		t.Fatalf("category = %+v", added)
	}
}
