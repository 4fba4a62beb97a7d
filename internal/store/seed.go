package store

import (
	"time"

	"dukapos/backend/internal/domain"
)

// NewSeeded returns a store preloaded with the demo dataset: three Nairobi
// branches, three users, six products, five settled sales and the default
// expense categories. Seed records keep their small numeric ids; generated
// records get prefixed ids, so the two never collide.
func NewSeeded(opts ...Option) *Store {
	s := New(opts...)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.branches = []domain.Branch{
		{ID: "1", Name: "Main Branch", Location: "Nairobi CBD"},
		{ID: "2", Name: "Westlands Branch", Location: "Westlands"},
		{ID: "3", Name: "Kilimani Branch", Location: "Kilimani"},
	}

	s.users = []domain.User{
		{ID: "1", Name: "John Kamau", Email: "john@shop.co.ke", Role: domain.RoleAdmin, BranchID: "1"},
		{ID: "2", Name: "Mary Wanjiru", Email: "mary@shop.co.ke", Role: domain.RoleStaff, BranchID: "1"},
		{ID: "3", Name: "Peter Ochieng", Email: "peter@shop.co.ke", Role: domain.RoleStaff, BranchID: "2"},
	}

	s.products = []domain.Product{
		{ID: "1", Name: "Rice 5kg", CostPrice: 450, SellingPrice: 650, Quantity: 45, Supplier: "Mwea Rice Suppliers", ReorderThreshold: 20, BranchID: "1"},
		{ID: "2", Name: "Sugar 2kg", CostPrice: 180, SellingPrice: 250, Quantity: 12, Supplier: "Mumias Sugar", ReorderThreshold: 15, BranchID: "1"},
		{ID: "3", Name: "Cooking Oil 1L", CostPrice: 220, SellingPrice: 320, Quantity: 8, Supplier: "Fresh Oil Ltd", ReorderThreshold: 10, BranchID: "1"},
		{ID: "4", Name: "Maize Flour 2kg", CostPrice: 130, SellingPrice: 190, Quantity: 55, Supplier: "Unga Group", ReorderThreshold: 25, BranchID: "1"},
		{ID: "5", Name: "Tea Leaves 500g", CostPrice: 280, SellingPrice: 380, Quantity: 5, Supplier: "Kenya Tea Packers", ReorderThreshold: 12, BranchID: "1"},
		{ID: "6", Name: "Milk 500ml", CostPrice: 50, SellingPrice: 70, Quantity: 65, Supplier: "Brookside Dairy", ReorderThreshold: 30, BranchID: "2"},
	}

	s.sales = []domain.Sale{
		{ID: "1", ProductID: "1", ProductName: "Rice 5kg", Quantity: 3, Revenue: 1950, Profit: 600, Date: seedTime("2026-02-22T10:30:00"), BranchID: "1", PaymentMode: domain.PaymentCash, PaymentStatus: domain.StatusSettled},
		{ID: "2", ProductID: "2", ProductName: "Sugar 2kg", Quantity: 5, Revenue: 1250, Profit: 350, Date: seedTime("2026-02-22T11:15:00"), BranchID: "1", PaymentMode: domain.PaymentMpesa, MpesaPhone: "254712345678", PaymentStatus: domain.StatusSettled},
		{ID: "3", ProductID: "4", ProductName: "Maize Flour 2kg", Quantity: 8, Revenue: 1520, Profit: 480, Date: seedTime("2026-02-22T09:45:00"), BranchID: "1", PaymentMode: domain.PaymentCash, PaymentStatus: domain.StatusSettled},
		{ID: "4", ProductID: "1", ProductName: "Rice 5kg", Quantity: 2, Revenue: 1300, Profit: 400, Date: seedTime("2026-02-21T14:20:00"), BranchID: "1", PaymentMode: domain.PaymentCash, PaymentStatus: domain.StatusSettled},
		{ID: "5", ProductID: "3", ProductName: "Cooking Oil 1L", Quantity: 4, Revenue: 1280, Profit: 400, Date: seedTime("2026-02-21T16:30:00"), BranchID: "1", PaymentMode: domain.PaymentMpesa, MpesaPhone: "254712345678", PaymentStatus: domain.StatusSettled},
	}

	s.expenseCategories = []domain.ExpenseCategory{
		{ID: "1", Name: "Rent"},
		{ID: "2", Name: "Utilities"},
		{ID: "3", Name: "Transport"},
		{ID: "4", Name: "Supplies"},
		{ID: "5", Name: "Staff Salary"},
		{ID: "6", Name: "Marketing"},
		{ID: "7", Name: "Maintenance"},
		{ID: "8", Name: "Insurance"},
		{ID: "9", Name: "Other"},
	}

	s.currentBranch = "1"
	return s
}

func seedTime(value string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05", value)
	if err != nil {
		panic("store: bad seed timestamp " + value)
	}
	return t
}
