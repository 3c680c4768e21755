//go:build !integration

package web_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/kopyalagelsin/storefront/internal/domain"
	"github.com/kopyalagelsin/storefront/internal/domain/model"
	"github.com/kopyalagelsin/storefront/internal/domain/ports/adapter"
	"github.com/kopyalagelsin/storefront/internal/usecase"
)

func doJSON(t *testing.T, handler http.Handler, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCheckoutInitEndpoint(t *testing.T) {
	body := `{
		"spec": {"size":"A4","color":"siyah_beyaz","side":"tek","pageCount":50,"bindingType":"none"},
		"customer": {"name":"Ali","email":"ali@example.com","phone":"5551234567","address":"İstanbul"},
		"document": {"url":"/uploads/a.pdf"},
		"total": "195"
	}`

	t.Run("should return the order id and session token", func(t *testing.T) {
		f := newServerFixture(t)
		f.checkout.InitiatePaymentFunc = func(ctx context.Context, draft usecase.CheckoutDraft, user *model.User, clientIP string) (*usecase.InitiateResult, error) {
			if !draft.ClaimedTotal.Equal(decimal.RequireFromString("195")) {
				t.Errorf("claimed total = %s", draft.ClaimedTotal)
			}
			o := &model.Order{ID: "order-1"}
			return &usecase.InitiateResult{Order: o, Token: "tok-1"}, nil
		}

		rec := doJSON(t, f.srv.Router(), http.MethodPost, "/api/paytr/init", body, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
		}
		var resp struct {
			OrderID string `json:"orderId"`
			Token   string `json:"token"`
		}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.OrderID != "order-1" || resp.Token != "tok-1" {
			t.Fatalf("unexpected response: %+v", resp)
		}
	})

	t.Run("should map a price mismatch to 409", func(t *testing.T) {
		f := newServerFixture(t)
		f.checkout.InitiatePaymentFunc = func(ctx context.Context, draft usecase.CheckoutDraft, user *model.User, clientIP string) (*usecase.InitiateResult, error) {
			return nil, domain.ErrPriceMismatch
		}

		rec := doJSON(t, f.srv.Router(), http.MethodPost, "/api/paytr/init", body, nil)
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("should map gateway unavailability to 502", func(t *testing.T) {
		f := newServerFixture(t)
		f.checkout.InitiatePaymentFunc = func(ctx context.Context, draft usecase.CheckoutDraft, user *model.User, clientIP string) (*usecase.InitiateResult, error) {
			return nil, domain.ErrGatewayUnavailable
		}

		rec := doJSON(t, f.srv.Router(), http.MethodPost, "/api/paytr/init", body, nil)
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, want 502", rec.Code)
		}
	})

	t.Run("should reject a malformed body", func(t *testing.T) {
		f := newServerFixture(t)
		rec := doJSON(t, f.srv.Router(), http.MethodPost, "/api/paytr/init", "{", nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestPaymentNotifyEndpoint(t *testing.T) {
	postForm := func(t *testing.T, handler http.Handler, form url.Values) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, "/api/paytr/notify", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	form := url.Values{}
	form.Set("merchant_oid", "order1abc")
	form.Set("status", "success")
	form.Set("total_amount", "19500")
	form.Set("hash", "digest")

	t.Run("should reply the plain-text acknowledgement", func(t *testing.T) {
		f := newServerFixture(t)
		f.checkout.ReconcileCallbackFunc = func(ctx context.Context, n adapter.Notification) (string, error) {
			if n.OrderRef != "order1abc" || n.TotalAmount != "19500" {
				t.Errorf("form not mapped: %+v", n)
			}
			return "OK", nil
		}

		rec := postForm(t, f.srv.Router(), form)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if rec.Body.String() != "OK" {
			t.Fatalf("body = %q, want bare OK", rec.Body.String())
		}
	})

	t.Run("should answer 400 on a failed digest", func(t *testing.T) {
		f := newServerFixture(t)
		f.checkout.ReconcileCallbackFunc = func(ctx context.Context, n adapter.Notification) (string, error) {
			return "FAILED", domain.ErrAuthenticity
		}

		rec := postForm(t, f.srv.Router(), form)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if strings.Contains(rec.Body.String(), "OK") {
			t.Fatal("a rejected notification must not be acknowledged")
		}
	})

	t.Run("should answer 500 on a storage failure so the processor retries", func(t *testing.T) {
		f := newServerFixture(t)
		f.checkout.ReconcileCallbackFunc = func(ctx context.Context, n adapter.Notification) (string, error) {
			return "FAILED", context.DeadlineExceeded
		}

		rec := postForm(t, f.srv.Router(), form)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rec.Code)
		}
	})
}

func TestAuthEndpoints(t *testing.T) {
	me := &model.User{ID: "user-1", Name: "Ayşe", Email: "ayse@example.com", ReferralCode: "AYSE1234", PasswordHash: "secret-hash"}

	t.Run("register sets a session cookie and hides internals", func(t *testing.T) {
		f := newServerFixture(t)
		f.users.RegisterFunc = func(ctx context.Context, name, email, password, referredByCode string) (*model.User, error) {
			return me, nil
		}

		rec := doJSON(t, f.srv.Router(), http.MethodPost, "/api/auth/register",
			`{"name":"Ayşe","email":"ayse@example.com","password":"s3cret"}`, nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
		}
		if len(rec.Result().Cookies()) == 0 {
			t.Fatal("expected a session cookie")
		}
		if strings.Contains(rec.Body.String(), "secret-hash") {
			t.Fatal("password hash leaked")
		}
	})

	t.Run("login failure is 401 and duplicate email 409", func(t *testing.T) {
		f := newServerFixture(t)
		f.users.AuthenticateFunc = func(ctx context.Context, email, password string) (*model.User, error) {
			return nil, domain.ErrNotFound
		}
		f.users.RegisterFunc = func(ctx context.Context, name, email, password, referredByCode string) (*model.User, error) {
			return nil, domain.ErrAlreadyExists
		}

		rec := doJSON(t, f.srv.Router(), http.MethodPost, "/api/auth/login",
			`{"email":"ayse@example.com","password":"nope"}`, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("login status = %d, want 401", rec.Code)
		}

		rec = doJSON(t, f.srv.Router(), http.MethodPost, "/api/auth/register",
			`{"name":"Ayşe","email":"ayse@example.com","password":"s3cret"}`, nil)
		if rec.Code != http.StatusConflict {
			t.Fatalf("register status = %d, want 409", rec.Code)
		}
	})

	t.Run("me requires and uses the session", func(t *testing.T) {
		f := newServerFixture(t)
		f.users.GetFunc = func(ctx context.Context, id string) (*model.User, error) {
			if id != "user-1" {
				t.Errorf("looked up %q", id)
			}
			return me, nil
		}

		// No cookie.
		rec := doJSON(t, f.srv.Router(), http.MethodGet, "/api/auth/me", "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}

		// Mint a customer session and retry.
		mintRec := httptest.NewRecorder()
		if _, err := f.auth.MintCustomer(mintRec, "user-1"); err != nil {
			t.Fatal(err)
		}
		rec = doJSON(t, f.srv.Router(), http.MethodGet, "/api/auth/me", "", mintRec.Result().Cookies())
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
		}
		var got struct {
			ReferralCode string `json:"referralCode"`
		}
		json.Unmarshal(rec.Body.Bytes(), &got)
		if got.ReferralCode != "AYSE1234" {
			t.Fatalf("unexpected body: %s", rec.Body)
		}
	})

	t.Run("an admin session does not open customer routes", func(t *testing.T) {
		f := newServerFixture(t)
		mintRec := httptest.NewRecorder()
		if _, err := f.auth.MintAdmin(mintRec, "admin@example.com"); err != nil {
			t.Fatal(err)
		}
		rec := doJSON(t, f.srv.Router(), http.MethodGet, "/api/auth/me", "", mintRec.Result().Cookies())
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})
}

func TestAdminEndpoints(t *testing.T) {
	adminCookies := func(t *testing.T, f *serverFixture) []*http.Cookie {
		t.Helper()
		rec := doJSON(t, f.srv.Router(), http.MethodPost, "/api/admin/login",
			`{"email":"admin@example.com","password":"admin-pass"}`, nil)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("admin login status = %d", rec.Code)
		}
		return rec.Result().Cookies()
	}

	t.Run("login rejects wrong credentials", func(t *testing.T) {
		f := newServerFixture(t)
		rec := doJSON(t, f.srv.Router(), http.MethodPost, "/api/admin/login",
			`{"email":"admin@example.com","password":"wrong"}`, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("panel routes require the admin session", func(t *testing.T) {
		f := newServerFixture(t)
		rec := doJSON(t, f.srv.Router(), http.MethodGet, "/api/admin/orders", "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}

		// A customer session is not an admin session.
		mintRec := httptest.NewRecorder()
		if _, err := f.auth.MintCustomer(mintRec, "user-1"); err != nil {
			t.Fatal(err)
		}
		rec = doJSON(t, f.srv.Router(), http.MethodGet, "/api/admin/orders", "", mintRec.Result().Cookies())
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401 for customer cookie", rec.Code)
		}
	})

	t.Run("config update records the acting admin", func(t *testing.T) {
		f := newServerFixture(t)
		var updatedBy string
		f.config.UpdateFunc = func(ctx context.Context, cfg *model.AppConfig, adminUser string) error {
			updatedBy = adminUser
			return nil
		}

		cfg := model.DefaultAppConfig()
		body, _ := json.Marshal(cfg)
		rec := doJSON(t, f.srv.Router(), http.MethodPut, "/api/admin/config", string(body), adminCookies(t, f))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
		}
		if updatedBy != "admin@example.com" {
			t.Fatalf("admin user = %q", updatedBy)
		}
	})

	t.Run("coupon toggle goes through the use case", func(t *testing.T) {
		f := newServerFixture(t)
		var toggledCode string
		var toggledTo bool
		f.coupons.SetActiveFunc = func(ctx context.Context, code string, active bool) error {
			toggledCode, toggledTo = code, active
			return nil
		}

		rec := doJSON(t, f.srv.Router(), http.MethodPatch, "/api/admin/coupons/KOPYALAGELSIN51234",
			`{"active":false}`, adminCookies(t, f))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d", rec.Code)
		}
		if toggledCode != "KOPYALAGELSIN51234" || toggledTo {
			t.Fatalf("toggle = %q/%v", toggledCode, toggledTo)
		}
	})

	t.Run("clearing logs leaves an audit trace", func(t *testing.T) {
		f := newServerFixture(t)
		f.audit.Entries = []model.LogEntry{model.NewLogEntry(model.LogTypeOrder, "old", nil)}

		rec := doJSON(t, f.srv.Router(), http.MethodDelete, "/api/admin/logs", "", adminCookies(t, f))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d", rec.Code)
		}
		if len(f.audit.Entries) != 1 || f.audit.Entries[0].Message != "audit log cleared" {
			t.Fatalf("expected a single clear entry, got %+v", f.audit.Entries)
		}
	})
}

func TestPublicConfigEndpoint(t *testing.T) {
	f := newServerFixture(t)
	rec := doJSON(t, f.srv.Router(), http.MethodGet, "/api/config", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]json.RawMessage
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if _, ok := resp["pricing"]; !ok {
		t.Error("pricing missing from public config")
	}
	if _, ok := resp["ui"]; !ok {
		t.Error("ui missing from public config")
	}
	// The marketing section is admin-only apart from the popup flag.
	if _, ok := resp["marketing"]; ok {
		t.Error("marketing section must not be public")
	}
}

func TestQuoteEndpoint(t *testing.T) {
	f := newServerFixture(t)
	rec := doJSON(t, f.srv.Router(), http.MethodPost, "/api/quote",
		`{"size":"A4","color":"siyah_beyaz","side":"tek","pageCount":50,"bindingType":"none"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, f.srv.Router(), http.MethodPost, "/api/quote",
		`{"size":"A7","color":"siyah_beyaz","side":"tek","pageCount":50,"bindingType":"none"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for a bad size", rec.Code)
	}
}
