package domain

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

type PaymentMode string

const (
	PaymentCash   PaymentMode = "cash"
	PaymentMpesa  PaymentMode = "mpesa"
	PaymentCredit PaymentMode = "credit"
)

type PaymentStatus string

const (
	StatusSettled  PaymentStatus = "settled"
	StatusCredited PaymentStatus = "credited"
)

type RecurringFrequency string

const (
	RecurringDaily   RecurringFrequency = "daily"
	RecurringWeekly  RecurringFrequency = "weekly"
	RecurringMonthly RecurringFrequency = "monthly"
	RecurringYearly  RecurringFrequency = "yearly"
)

type Branch struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	BranchID string `json:"branch_id"`
}

type Product struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	CostPrice        float64 `json:"cost_price"`
	SellingPrice     float64 `json:"selling_price"`
	Quantity         int     `json:"quantity"`
	Supplier         string  `json:"supplier"`
	ReorderThreshold int     `json:"reorder_threshold"`
	BranchID         string  `json:"branch_id"`
}

// Sale is immutable once recorded. ProductName, Revenue and Profit are
// snapshots taken at sale time; later product edits do not touch them.
type Sale struct {
	ID            string        `json:"id"`
	ProductID     string        `json:"product_id"`
	ProductName   string        `json:"product_name"`
	Quantity      int           `json:"quantity"`
	Revenue       float64       `json:"revenue"`
	Profit        float64       `json:"profit"`
	Date          time.Time     `json:"date"`
	BranchID      string        `json:"branch_id"`
	PaymentMode   PaymentMode   `json:"payment_mode"`
	MpesaPhone    string        `json:"mpesa_phone,omitempty"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	CreditName    string        `json:"credit_name,omitempty"`
	CreditNotes   string        `json:"credit_notes,omitempty"`
}

// CreditSale tracks credit extended to a customer. SaleID is a loose link to
// the Sale it originated from and may be empty for credit recorded outside a
// point-of-sale flow.
type CreditSale struct {
	ID          string     `json:"id"`
	SaleID      string     `json:"sale_id,omitempty"`
	CreditName  string     `json:"credit_name"`
	Amount      float64    `json:"amount"`
	DueDate     time.Time  `json:"due_date"`
	Notes       string     `json:"notes,omitempty"`
	BranchID    string     `json:"branch_id"`
	CreatedDate time.Time  `json:"created_date"`
	PaidDate    *time.Time `json:"paid_date,omitempty"`
	IsPaid      bool       `json:"is_paid"`
}

// Expense carries recurrence metadata that is stored but never expanded into
// materialized future instances.
type Expense struct {
	ID                 string             `json:"id"`
	Category           string             `json:"category"`
	Amount             float64            `json:"amount"`
	Date               time.Time          `json:"date"`
	Notes              string             `json:"notes,omitempty"`
	BranchID           string             `json:"branch_id"`
	IsRecurring        bool               `json:"is_recurring"`
	RecurringFrequency RecurringFrequency `json:"recurring_frequency,omitempty"`
	RecurringEndDate   *time.Time         `json:"recurring_end_date,omitempty"`
}

type ExpenseCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type DamagedItem struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	Reason      string    `json:"reason"`
	Date        time.Time `json:"date"`
	BranchID    string    `json:"branch_id"`
}

// Branch returns the owning branch id. Implemented by every branch-scoped
// entity so the aggregates share one scoping helper.
func (p Product) Branch() string     { return p.BranchID }
func (s Sale) Branch() string        { return s.BranchID }
func (c CreditSale) Branch() string  { return c.BranchID }
func (e Expense) Branch() string     { return e.BranchID }
func (u User) Branch() string        { return u.BranchID }
func (d DamagedItem) Branch() string { return d.BranchID }

// Actor identifies the authenticated caller on a request context.
type Actor struct {
	UserID   string
	Role     Role
	BranchID string
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
	BranchID    string `json:"branch_id"`
	ExpiresAt   string `json:"expires_at"`
}

type ProductCreateRequest struct {
	Name             string  `json:"name"`
	CostPrice        float64 `json:"cost_price"`
	SellingPrice     float64 `json:"selling_price"`
	Quantity         int     `json:"quantity"`
	Supplier         string  `json:"supplier"`
	ReorderThreshold int     `json:"reorder_threshold"`
	BranchID         string  `json:"branch_id,omitempty"`
}

type ProductUpdateRequest struct {
	Name             *string  `json:"name,omitempty"`
	CostPrice        *float64 `json:"cost_price,omitempty"`
	SellingPrice     *float64 `json:"selling_price,omitempty"`
	Quantity         *int     `json:"quantity,omitempty"`
	Supplier         *string  `json:"supplier,omitempty"`
	ReorderThreshold *int     `json:"reorder_threshold,omitempty"`
}

type SaleLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// SaleCreateRequest records one order. Each line becomes its own Sale record;
// the payment details apply to every line.
type SaleCreateRequest struct {
	Items       []SaleLine  `json:"items"`
	PaymentMode PaymentMode `json:"payment_mode"`
	MpesaPhone  string      `json:"mpesa_phone,omitempty"`
	CreditName  string      `json:"credit_name,omitempty"`
	CreditNotes string      `json:"credit_notes,omitempty"`
	BranchID    string      `json:"branch_id,omitempty"`
}

type SaleCreateResponse struct {
	Sales        []Sale  `json:"sales"`
	TotalRevenue float64 `json:"total_revenue"`
	TotalProfit  float64 `json:"total_profit"`
}

type CreditSaleCreateRequest struct {
	SaleID     string  `json:"sale_id,omitempty"`
	CreditName string  `json:"credit_name"`
	Amount     float64 `json:"amount"`
	DueDate    string  `json:"due_date"`
	Notes      string  `json:"notes,omitempty"`
	BranchID   string  `json:"branch_id,omitempty"`
}

type ExpenseCreateRequest struct {
	Category           string             `json:"category"`
	Amount             float64            `json:"amount"`
	Date               string             `json:"date"`
	Notes              string             `json:"notes,omitempty"`
	BranchID           string             `json:"branch_id,omitempty"`
	IsRecurring        bool               `json:"is_recurring"`
	RecurringFrequency RecurringFrequency `json:"recurring_frequency,omitempty"`
	RecurringEndDate   string             `json:"recurring_end_date,omitempty"`
}

type ExpenseUpdateRequest struct {
	Category           *string             `json:"category,omitempty"`
	Amount             *float64            `json:"amount,omitempty"`
	Date               *string             `json:"date,omitempty"`
	Notes              *string             `json:"notes,omitempty"`
	IsRecurring        *bool               `json:"is_recurring,omitempty"`
	RecurringFrequency *RecurringFrequency `json:"recurring_frequency,omitempty"`
	RecurringEndDate   *string             `json:"recurring_end_date,omitempty"`
}

type BranchCreateRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

type UserCreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	BranchID string `json:"branch_id"`
}

type UserUpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     *Role   `json:"role,omitempty"`
	BranchID *string `json:"branch_id,omitempty"`
}

type DamagedItemCreateRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
	BranchID  string `json:"branch_id,omitempty"`
}

type RestockRequest struct {
	Quantity int `json:"quantity"`
}

// BulkRestockRequest restocks every listed product by its recommended
// quantity in one confirmation.
type BulkRestockRequest struct {
	ProductIDs []string `json:"product_ids"`
	BranchID   string   `json:"branch_id,omitempty"`
}

type BulkRestockResponse struct {
	Restocked []Product `json:"restocked"`
	TotalCost float64   `json:"total_cost"`
}

type ThemeUpdateRequest struct {
	Theme string `json:"theme"`
}

type ThemeResponse struct {
	Theme     string   `json:"theme"`
	Persisted bool     `json:"persisted"`
	Available []string `json:"available"`
}

type TrendPoint struct {
	Date    string  `json:"date"`
	Label   string  `json:"label"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
}

type DashboardReport struct {
	BranchID            string       `json:"branch_id"`
	TotalInventoryValue float64      `json:"total_inventory_value"`
	ExpectedProfit      float64      `json:"expected_profit"`
	TodayRevenue        float64      `json:"today_revenue"`
	LowStockItems       int          `json:"low_stock_items"`
	Trend               []TrendPoint `json:"trend"`
}

type RegisterLine struct {
	Type        string      `json:"type"`
	ID          string      `json:"id"`
	Date        time.Time   `json:"date"`
	Description string      `json:"description"`
	Amount      float64     `json:"amount"`
	PaymentMode PaymentMode `json:"payment_mode"`
	DueDate     string      `json:"due_date,omitempty"`
}

type CashRegisterReport struct {
	BranchID      string         `json:"branch_id"`
	Period        string         `json:"period"`
	From          time.Time      `json:"from"`
	To            time.Time      `json:"to"`
	CashTotal     float64        `json:"cash_total"`
	MpesaTotal    float64        `json:"mpesa_total"`
	CreditTotal   float64        `json:"credit_total"`
	TotalRevenue  float64        `json:"total_revenue"`
	TotalReceived float64        `json:"total_received"`
	Variance      float64        `json:"variance"`
	Reconciled    bool           `json:"reconciled"`
	Transactions  []RegisterLine `json:"transactions"`
}

type ReconciliationRecord struct {
	Type       string      `json:"type"`
	Sale       *Sale       `json:"sale,omitempty"`
	CreditSale *CreditSale `json:"credit_sale,omitempty"`
}

type ReconciliationReport struct {
	BranchID      string                 `json:"branch_id"`
	SettledTotal  float64                `json:"settled_total"`
	CreditedTotal float64                `json:"credited_total"`
	Records       []ReconciliationRecord `json:"records"`
}

type RestockSuggestion struct {
	Product         Product  `json:"product"`
	RecommendedQty  int      `json:"recommended_qty"`
	RestockCost     float64  `json:"restock_cost"`
	PotentialProfit float64  `json:"potential_profit"`
	ProfitMarginPct *float64 `json:"profit_margin_pct,omitempty"`
	LowStock        bool     `json:"low_stock"`
	Urgency         string   `json:"urgency,omitempty"`
}

type SalesHistoryReport struct {
	BranchID     string  `json:"branch_id"`
	Period       string  `json:"period"`
	TotalRevenue float64 `json:"total_revenue"`
	TotalProfit  float64 `json:"total_profit"`
	Sales        []Sale  `json:"sales"`
}

type ExpenseMonthGroup struct {
	Month string    `json:"month"`
	Total float64   `json:"total"`
	Items []Expense `json:"items"`
}

type ExpenseReport struct {
	BranchID string              `json:"branch_id"`
	Total    float64             `json:"total"`
	Months   []ExpenseMonthGroup `json:"months"`
}

type DamagedGoodsSummary struct {
	BranchID   string        `json:"branch_id"`
	Records    int           `json:"records"`
	TotalUnits int           `json:"total_units"`
	Items      []DamagedItem `json:"items"`
}

const (
	UrgencyLow      = "low"
	UrgencyCritical = "critical"
)
