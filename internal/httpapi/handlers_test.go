package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"dukapos/backend/internal/domain"
	"dukapos/backend/internal/prefs"
	"dukapos/backend/internal/service"
	"dukapos/backend/internal/store"
)

func newTestAPI(t *testing.T) *API {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := service.New(store.NewSeeded(), prefs.NewMemoryThemeStore(), log, "1")
	return New(svc, NewAuthManager("test-secret", time.Hour), log, "*")
}

func issueToken(t *testing.T, api *API, user domain.User) string {
	t.Helper()
	token, _, err := api.auth.Issue(user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func adminToken(t *testing.T, api *API) string {
	return issueToken(t, api, domain.User{ID: "1", Role: domain.RoleAdmin, BranchID: "1"})
}

func staffToken(t *testing.T, api *API) string {
	return issueToken(t, api, domain.User{ID: "3", Role: domain.RoleStaff, BranchID: "2"})
}

func doJSON(t *testing.T, api *API, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		req.Header.Set("X-CSRF-Token", api.generateCSRFToken())
	}
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dest); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestLoginReturnsToken(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodPost, "/api/v1/auth/login", "", domain.LoginRequest{
		Email:    "john@shop.co.ke",
		Password: "anything",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp domain.LoginResponse
	decodeBody(t, rec, &resp)
	if resp.AccessToken == "" {
		t.Fatal("expected a non-empty access token")
	}
	if resp.User.ID != "1" || resp.BranchID != "1" {
		t.Fatalf("unexpected login payload: user %s branch %s", resp.User.ID, resp.BranchID)
	}

	actor, err := api.auth.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if actor.UserID != "1" || actor.Role != domain.RoleAdmin || actor.BranchID != "1" {
		t.Fatalf("unexpected actor from token: %+v", actor)
	}
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodPost, "/api/v1/auth/login", "", domain.LoginRequest{
		Email:    "nobody@shop.co.ke",
		Password: "x",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestLoginValidatesBody(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodPost, "/api/v1/auth/login", "", domain.LoginRequest{Email: "john@shop.co.ke"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestLoginRateLimited(t *testing.T) {
	api := newTestAPI(t)

	var last int
	for i := 0; i < 6; i++ {
		rec := doJSON(t, api, http.MethodPost, "/api/v1/auth/login", "", domain.LoginRequest{
			Email:    "nobody@shop.co.ke",
			Password: "x",
		})
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("sixth attempt status = %d, want 429", last)
	}
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuthRejectsGarbageToken(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestUsersRouteIsAdminOnly(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodGet, "/api/v1/users", staffToken(t, api), nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("staff status = %d, want 403", rec.Code)
	}

	rec = doJSON(t, api, http.MethodGet, "/api/v1/users", adminToken(t, api), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Users []domain.User `json:"users"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.Users) != 3 {
		t.Fatalf("users = %d, want 3", len(resp.Users))
	}
}

func TestListProductsDefaultsToCurrentBranch(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodGet, "/api/v1/products", adminToken(t, api), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Products []domain.Product `json:"products"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.Products) != 5 {
		t.Fatalf("branch 1 products = %d, want 5", len(resp.Products))
	}

	rec = doJSON(t, api, http.MethodGet, "/api/v1/products?branch_id=2", adminToken(t, api), nil)
	decodeBody(t, rec, &resp)
	if len(resp.Products) != 1 || resp.Products[0].Name != "Milk 500ml" {
		t.Fatalf("branch 2 products = %+v, want just Milk 500ml", resp.Products)
	}
}

func TestCreateProductEndToEnd(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodPost, "/api/v1/products", adminToken(t, api), domain.ProductCreateRequest{
		Name:             "Bread 400g",
		CostPrice:        45,
		SellingPrice:     65,
		Quantity:         20,
		Supplier:         "Broadways Bakery",
		ReorderThreshold: 10,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Product domain.Product `json:"product"`
	}
	decodeBody(t, rec, &resp)
	if resp.Product.ID == "" || resp.Product.BranchID != "1" {
		t.Fatalf("unexpected product: %+v", resp.Product)
	}

	get := doJSON(t, api, http.MethodGet, "/api/v1/products/"+resp.Product.ID, adminToken(t, api), nil)
	if get.Code != http.StatusOK {
		t.Fatalf("get status = %d", get.Code)
	}
}

func TestCreateProductForbiddenForStaff(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodPost, "/api/v1/products", staffToken(t, api), domain.ProductCreateRequest{
		Name: "Bread 400g",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestProductNotFoundMapsTo404(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodGet, "/api/v1/products/999", adminToken(t, api), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestRecordSaleHandler(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodPost, "/api/v1/sales", adminToken(t, api), domain.SaleCreateRequest{
		Items:       []domain.SaleLine{{ProductID: "1", Quantity: 2}},
		PaymentMode: domain.PaymentCash,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp domain.SaleCreateResponse
	decodeBody(t, rec, &resp)
	if len(resp.Sales) != 1 || resp.TotalRevenue != 1300 {
		t.Fatalf("unexpected sale response: %+v", resp)
	}
}

func TestRecordSaleInsufficientStockMapsTo409(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodPost, "/api/v1/sales", adminToken(t, api), domain.SaleCreateRequest{
		Items:       []domain.SaleLine{{ProductID: "5", Quantity: 50}},
		PaymentMode: domain.PaymentCash,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestCreditSalePayFlow(t *testing.T) {
	api := newTestAPI(t)
	token := adminToken(t, api)

	rec := doJSON(t, api, http.MethodPost, "/api/v1/credit-sales", token, domain.CreditSaleCreateRequest{
		CreditName: "Grace Wanjiku",
		Amount:     500,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created struct {
		CreditSale domain.CreditSale `json:"credit_sale"`
	}
	decodeBody(t, rec, &created)
	if created.CreditSale.IsPaid {
		t.Fatal("new credit sale must start unpaid")
	}

	rec = doJSON(t, api, http.MethodPost, fmt.Sprintf("/api/v1/credit-sales/%s/pay", created.CreditSale.ID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("pay status = %d, body %s", rec.Code, rec.Body.String())
	}
	var paid struct {
		CreditSale domain.CreditSale `json:"credit_sale"`
	}
	decodeBody(t, rec, &paid)
	if !paid.CreditSale.IsPaid || paid.CreditSale.PaidDate == nil {
		t.Fatalf("credit sale not settled: %+v", paid.CreditSale)
	}
}

func TestBranchSwitchHandler(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodPut, "/api/v1/branches/current", adminToken(t, api), map[string]string{"branch_id": "2"})
	if rec.Code != http.StatusOK {
		t.Fatalf("switch status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, api, http.MethodGet, "/api/v1/branches/current", adminToken(t, api), nil)
	var resp struct {
		Branch domain.Branch `json:"branch"`
	}
	decodeBody(t, rec, &resp)
	if resp.Branch.ID != "2" {
		t.Fatalf("current branch = %s, want 2", resp.Branch.ID)
	}
}

func TestBranchSwitchStaffOutsideHomeBranch(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodPut, "/api/v1/branches/current", staffToken(t, api), map[string]string{"branch_id": "1"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestDashboardHandler(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodGet, "/api/v1/reports/dashboard?branch_id=1", adminToken(t, api), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var report domain.DashboardReport
	decodeBody(t, rec, &report)
	if report.TotalInventoryValue != 47160 {
		t.Fatalf("inventory value = %v, want 47160", report.TotalInventoryValue)
	}
	if report.LowStockItems != 3 {
		t.Fatalf("low stock count = %d, want 3", report.LowStockItems)
	}
	if len(report.Trend) != 7 {
		t.Fatalf("trend points = %d, want 7", len(report.Trend))
	}
}

func TestThemeHandlerRoundTrip(t *testing.T) {
	api := newTestAPI(t)
	token := adminToken(t, api)

	rec := doJSON(t, api, http.MethodGet, "/api/v1/settings/theme", token, nil)
	var resp domain.ThemeResponse
	decodeBody(t, rec, &resp)
	if resp.Theme != prefs.DefaultTheme {
		t.Fatalf("theme = %s, want default %s", resp.Theme, prefs.DefaultTheme)
	}

	rec = doJSON(t, api, http.MethodPut, "/api/v1/settings/theme", token, domain.ThemeUpdateRequest{Theme: "blue"})
	if rec.Code != http.StatusOK {
		t.Fatalf("set status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, api, http.MethodGet, "/api/v1/settings/theme", token, nil)
	decodeBody(t, rec, &resp)
	if resp.Theme != "blue" {
		t.Fatalf("theme = %s, want blue", resp.Theme)
	}

	rec = doJSON(t, api, http.MethodPut, "/api/v1/settings/theme", token, domain.ThemeUpdateRequest{Theme: "neon"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid theme status = %d, want 400", rec.Code)
	}
}

func TestUnknownFieldsRejected(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodPost, "/api/v1/products", adminToken(t, api), map[string]any{
		"name":     "Bread 400g",
		"surprise": true,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestWriteErrorScrubsAndUsesInjectedLogger(t *testing.T) {
	var logBuf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&logBuf)
	svc := service.New(store.NewSeeded(), prefs.NewMemoryThemeStore(), log, "1")
	api := New(svc, NewAuthManager("test-secret", time.Hour), log, "*")

	rec := httptest.NewRecorder()
	api.writeError(rec, http.StatusInternalServerError, errors.New("connection torn down"))

	var resp struct {
		Error string `json:"error"`
	}
	decodeBody(t, rec, &resp)
	if resp.Error != "internal server error" {
		t.Fatalf("5xx body = %q, want the generic message", resp.Error)
	}
	if !strings.Contains(logBuf.String(), "connection torn down") {
		t.Fatalf("injected logger did not record the error, log: %s", logBuf.String())
	}

	rec = httptest.NewRecorder()
	api.writeError(rec, http.StatusBadRequest, errors.New("bad input"))
	decodeBody(t, rec, &resp)
	if resp.Error != "bad input" {
		t.Fatalf("4xx body = %q, want the original message", resp.Error)
	}
}

func TestHealthz(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
