package store

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"dukapos/backend/internal/domain"
	"dukapos/backend/internal/xid"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInsufficientStock  = errors.New("insufficient stock")
)

// Store is the single owner of all domain collections. Collections keep
// insertion order; reads hand out copies so callers can never mutate shared
// state. Stock validation deliberately does not happen here; AddSale applied
// without the service-layer check can drive a quantity negative.
type Store struct {
	mu                sync.RWMutex
	branches          []domain.Branch
	products          []domain.Product
	sales             []domain.Sale
	creditSales       []domain.CreditSale
	expenses          []domain.Expense
	expenseCategories []domain.ExpenseCategory
	users             []domain.User
	damagedItems      []domain.DamagedItem

	activeUser    *domain.User
	currentBranch string

	newID func(prefix string) string
	now   func() time.Time
}

// Option configures a Store. The id generator and clock are injectable so
// tests can pin them down.
type Option func(*Store)

func WithIDFunc(fn func(prefix string) string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		newID: xid.New,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// --- session ---

// Login resolves a user by email and makes their home branch the current
// scope. The password is accepted but not verified; user records carry no
// credentials.
func (s *Store) Login(email string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			user := u
			s.activeUser = &user
			s.currentBranch = user.BranchID
			return user, nil
		}
	}
	return domain.User{}, ErrInvalidCredentials
}

func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeUser = nil
}

func (s *Store) ActiveUser() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.activeUser == nil {
		return domain.User{}, false
	}
	return *s.activeUser, true
}

func (s *Store) CurrentBranch() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentBranch
}

// SetCurrentBranch switches the active scope. No existence check: an unknown
// id simply scopes every aggregate down to nothing.
func (s *Store) SetCurrentBranch(branchID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentBranch = branchID
}

// --- branches ---

func (s *Store) Branches() []domain.Branch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.branches)
}

func (s *Store) BranchByID(id string) (domain.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.branches {
		if b.ID == id {
			return b, nil
		}
	}
	return domain.Branch{}, ErrNotFound
}

func (s *Store) AddBranch(branch domain.Branch) domain.Branch {
	s.mu.Lock()
	defer s.mu.Unlock()
	branch.ID = s.newID("branch")
	s.branches = append(s.branches, branch)
	return branch
}

// --- products ---

func (s *Store) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.products)
}

func (s *Store) ProductByID(id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, ErrNotFound
}

func (s *Store) AddProduct(product domain.Product) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	product.ID = s.newID("prod")
	s.products = append(s.products, product)
	return product
}

func (s *Store) UpdateProduct(product domain.Product) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.products {
		if p.ID == product.ID {
			s.products[i] = product
			return product, nil
		}
	}
	return domain.Product{}, ErrNotFound
}

func (s *Store) DeleteProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.products {
		if p.ID == id {
			s.products = slices.Delete(s.products, i, i+1)
			return nil
		}
	}
	return ErrNotFound
}

// RestockProduct increases stock by qty and has no other observable effect.
func (s *Store) RestockProduct(id string, qty int) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i].Quantity += qty
			return s.products[i], nil
		}
	}
	return domain.Product{}, ErrNotFound
}

// --- sales ---

func (s *Store) Sales() []domain.Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.sales)
}

// AddSale stamps id and timestamp, prepends the record (newest first) and
// decrements the referenced product's stock when the product exists. The
// decrement is unconditional; the caller is responsible for checking
// available stock first.
func (s *Store) AddSale(sale domain.Sale) domain.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale.ID = s.newID("sale")
	sale.Date = s.now()
	s.sales = append([]domain.Sale{sale}, s.sales...)

	for i := range s.products {
		if s.products[i].ID == sale.ProductID {
			s.products[i].Quantity -= sale.Quantity
			break
		}
	}
	return sale
}

// --- credit sales ---

func (s *Store) CreditSales() []domain.CreditSale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.creditSales)
}

func (s *Store) AddCreditSale(credit domain.CreditSale) domain.CreditSale {
	s.mu.Lock()
	defer s.mu.Unlock()

	credit.ID = s.newID("credit")
	credit.CreatedDate = s.now()
	credit.IsPaid = false
	credit.PaidDate = nil
	s.creditSales = append([]domain.CreditSale{credit}, s.creditSales...)
	return credit
}

// MarkCreditSalePaid is one-way and idempotent: paying an already-paid record
// keeps the original PaidDate.
func (s *Store) MarkCreditSalePaid(id string) (domain.CreditSale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.creditSales {
		if s.creditSales[i].ID != id {
			continue
		}
		if !s.creditSales[i].IsPaid {
			paidAt := s.now()
			s.creditSales[i].IsPaid = true
			s.creditSales[i].PaidDate = &paidAt
		}
		return s.creditSales[i], nil
	}
	return domain.CreditSale{}, ErrNotFound
}

func (s *Store) DeleteCreditSale(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.creditSales {
		if c.ID == id {
			s.creditSales = slices.Delete(s.creditSales, i, i+1)
			return nil
		}
	}
	return ErrNotFound
}

// --- expenses ---

func (s *Store) Expenses() []domain.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.expenses)
}

func (s *Store) ExpenseByID(id string) (domain.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return domain.Expense{}, ErrNotFound
}

func (s *Store) AddExpense(expense domain.Expense) domain.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	expense.ID = s.newID("exp")
	s.expenses = append(s.expenses, expense)
	return expense
}

func (s *Store) UpdateExpense(expense domain.Expense) (domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.expenses {
		if e.ID == expense.ID {
			s.expenses[i] = expense
			return expense, nil
		}
	}
	return domain.Expense{}, ErrNotFound
}

func (s *Store) DeleteExpense(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.expenses {
		if e.ID == id {
			s.expenses = slices.Delete(s.expenses, i, i+1)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) ExpenseCategories() []domain.ExpenseCategory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.expenseCategories)
}

func (s *Store) AddExpenseCategory(name string) domain.ExpenseCategory {
	s.mu.Lock()
	defer s.mu.Unlock()
	category := domain.ExpenseCategory{ID: s.newID("cat"), Name: name}
	s.expenseCategories = append(s.expenseCategories, category)
	return category
}

// --- users ---

func (s *Store) Users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.users)
}

func (s *Store) UserByID(id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, ErrNotFound
}

func (s *Store) AddUser(user domain.User) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = s.newID("user")
	s.users = append(s.users, user)
	return user
}

func (s *Store) UpdateUser(user domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.users {
		if u.ID == user.ID {
			s.users[i] = user
			if s.activeUser != nil && s.activeUser.ID == user.ID {
				active := user
				s.activeUser = &active
			}
			return user, nil
		}
	}
	return domain.User{}, ErrNotFound
}

func (s *Store) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.users {
		if u.ID == id {
			s.users = slices.Delete(s.users, i, i+1)
			return nil
		}
	}
	return ErrNotFound
}

// --- damaged goods ---

func (s *Store) DamagedItems() []domain.DamagedItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.damagedItems)
}

func (s *Store) AddDamagedItem(item domain.DamagedItem) domain.DamagedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = s.newID("dmg")
	item.Date = s.now()
	s.damagedItems = append([]domain.DamagedItem{item}, s.damagedItems...)
	return item
}

func (s *Store) DeleteDamagedItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.damagedItems {
		if d.ID == id {
			s.damagedItems = slices.Delete(s.damagedItems, i, i+1)
			return nil
		}
	}
	return ErrNotFound
}
