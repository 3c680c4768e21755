//go:build !integration

package web_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kopyalagelsin/storefront/internal/domain"
	"github.com/kopyalagelsin/storefront/internal/domain/model"
	"github.com/kopyalagelsin/storefront/internal/domain/ports/adapter"
	"github.com/kopyalagelsin/storefront/internal/domain/ports/repository"
	"github.com/kopyalagelsin/storefront/internal/infra/i18n"
	"github.com/kopyalagelsin/storefront/internal/infra/web"
	"github.com/kopyalagelsin/storefront/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// ---- Mock CheckoutUseCase ----

type MockCheckoutUC struct {
	InitiatePaymentFunc   func(ctx context.Context, draft usecase.CheckoutDraft, user *model.User, clientIP string) (*usecase.InitiateResult, error)
	ReconcileCallbackFunc func(ctx context.Context, n adapter.Notification) (string, error)
}

var _ usecase.CheckoutUseCase = (*MockCheckoutUC)(nil)

func (m *MockCheckoutUC) InitiatePayment(ctx context.Context, draft usecase.CheckoutDraft, user *model.User, clientIP string) (*usecase.InitiateResult, error) {
	return m.InitiatePaymentFunc(ctx, draft, user, clientIP)
}

func (m *MockCheckoutUC) ReconcileCallback(ctx context.Context, n adapter.Notification) (string, error) {
	return m.ReconcileCallbackFunc(ctx, n)
}

// ---- Mock OrderUseCase ----

type MockOrderUC struct {
	GetFunc         func(ctx context.Context, id string) (*model.Order, error)
	GetOwnedFunc    func(ctx context.Context, id, userID string) (*model.Order, error)
	ListForUserFunc func(ctx context.Context, userID string) ([]*model.Order, error)
	ListAllFunc     func(ctx context.Context) ([]*model.Order, error)
}

var _ usecase.OrderUseCase = (*MockOrderUC)(nil)

func (m *MockOrderUC) Get(ctx context.Context, id string) (*model.Order, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockOrderUC) GetOwned(ctx context.Context, id, userID string) (*model.Order, error) {
	if m.GetOwnedFunc != nil {
		return m.GetOwnedFunc(ctx, id, userID)
	}
	return nil, domain.ErrNotFound
}

func (m *MockOrderUC) ListForUser(ctx context.Context, userID string) ([]*model.Order, error) {
	if m.ListForUserFunc != nil {
		return m.ListForUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockOrderUC) ListAll(ctx context.Context) ([]*model.Order, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

// ---- Mock CouponUseCase ----

type MockCouponUC struct {
	IssueFunc       func(ctx context.Context, userID string, typ model.CouponType, percent int, validFrom time.Time, validUntil *time.Time) (*model.Coupon, error)
	GetFunc         func(ctx context.Context, code string) (*model.Coupon, error)
	ListForUserFunc func(ctx context.Context, userID string) ([]*model.Coupon, error)
	ListAllFunc     func(ctx context.Context) ([]*model.Coupon, error)
	SetActiveFunc   func(ctx context.Context, code string, active bool) error
}

var _ usecase.CouponUseCase = (*MockCouponUC)(nil)

func (m *MockCouponUC) Issue(ctx context.Context, userID string, typ model.CouponType, percent int, validFrom time.Time, validUntil *time.Time) (*model.Coupon, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, userID, typ, percent, validFrom, validUntil)
	}
	return model.NewCoupon("KOPYALAGELSIN51234", userID, typ, percent, validFrom, validUntil)
}

func (m *MockCouponUC) Get(ctx context.Context, code string) (*model.Coupon, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, code)
	}
	return nil, domain.ErrNotFound
}

func (m *MockCouponUC) ListForUser(ctx context.Context, userID string) ([]*model.Coupon, error) {
	if m.ListForUserFunc != nil {
		return m.ListForUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockCouponUC) ListAll(ctx context.Context) ([]*model.Coupon, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockCouponUC) RedeemOnce(ctx context.Context, code string) error { return nil }

func (m *MockCouponUC) SetActive(ctx context.Context, code string, active bool) error {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, code, active)
	}
	return nil
}

// ---- Mock UserUseCase ----

type MockUserUC struct {
	RegisterFunc     func(ctx context.Context, name, email, password, referredByCode string) (*model.User, error)
	AuthenticateFunc func(ctx context.Context, email, password string) (*model.User, error)
	GetFunc          func(ctx context.Context, id string) (*model.User, error)
}

var _ usecase.UserUseCase = (*MockUserUC)(nil)

func (m *MockUserUC) Register(ctx context.Context, name, email, password, referredByCode string) (*model.User, error) {
	return m.RegisterFunc(ctx, name, email, password, referredByCode)
}

func (m *MockUserUC) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	return m.AuthenticateFunc(ctx, email, password)
}

func (m *MockUserUC) Get(ctx context.Context, id string) (*model.User, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

// ---- Mock ConfigUseCase ----

type MockConfigUC struct {
	GetFunc    func(ctx context.Context) (*model.AppConfig, error)
	UpdateFunc func(ctx context.Context, cfg *model.AppConfig, adminUser string) error
}

var _ usecase.ConfigUseCase = (*MockConfigUC)(nil)

func (m *MockConfigUC) Get(ctx context.Context) (*model.AppConfig, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx)
	}
	cfg := model.DefaultAppConfig()
	return &cfg, nil
}

func (m *MockConfigUC) Update(ctx context.Context, cfg *model.AppConfig, adminUser string) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, cfg, adminUser)
	}
	return nil
}

// ---- Repo/adapter stubs the server needs ----

type MockUserRepo struct {
	ListAllFunc func(ctx context.Context) ([]*model.User, error)
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func (m *MockUserRepo) Save(ctx context.Context, u *model.User) error { return nil }
func (m *MockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return nil, domain.ErrNotFound
}
func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, domain.ErrNotFound
}
func (m *MockUserRepo) FindByReferralCode(ctx context.Context, code string) (*model.User, error) {
	return nil, domain.ErrNotFound
}
func (m *MockUserRepo) ListAll(ctx context.Context) ([]*model.User, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

type MockAuditRepo struct {
	Entries []model.LogEntry
}

var _ repository.AuditLogRepository = (*MockAuditRepo)(nil)

func (m *MockAuditRepo) Append(ctx context.Context, e model.LogEntry) error {
	m.Entries = append(m.Entries, e)
	return nil
}
func (m *MockAuditRepo) ListRecent(ctx context.Context) ([]model.LogEntry, error) {
	return m.Entries, nil
}
func (m *MockAuditRepo) Clear(ctx context.Context) error {
	m.Entries = nil
	return nil
}

type MockDocumentStore struct {
	PutFunc func(ctx context.Context, name string, data []byte) (string, error)
	GetFunc func(ctx context.Context, url string) ([]byte, error)
}

var _ repository.DocumentStore = (*MockDocumentStore)(nil)

func (m *MockDocumentStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, name, data)
	}
	return "/uploads/stub_" + name, nil
}

func (m *MockDocumentStore) Get(ctx context.Context, url string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, url)
	}
	return nil, domain.ErrNotFound
}

// ---- Server fixture ----

type serverFixture struct {
	checkout *MockCheckoutUC
	orders   *MockOrderUC
	coupons  *MockCouponUC
	users    *MockUserUC
	config   *MockConfigUC
	userRepo *MockUserRepo
	audit    *MockAuditRepo
	docs     *MockDocumentStore
	auth     *web.AuthManager
	srv      *web.Server
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()
	tr, err := i18n.NewTranslator(i18n.LocalesFS, "tr")
	if err != nil {
		t.Fatal(err)
	}

	f := &serverFixture{
		checkout: &MockCheckoutUC{},
		orders:   &MockOrderUC{},
		coupons:  &MockCouponUC{},
		users:    &MockUserUC{},
		config:   &MockConfigUC{},
		userRepo: &MockUserRepo{},
		audit:    &MockAuditRepo{},
		docs:     &MockDocumentStore{},
		auth:     web.NewAuthManager("test-secret", false, time.Hour, 30*time.Minute),
	}
	f.srv = web.NewServer(web.ServerDeps{
		Checkout:      f.checkout,
		Orders:        f.orders,
		Coupons:       f.coupons,
		Users:         f.users,
		Config:        f.config,
		UserRepo:      f.userRepo,
		Audit:         f.audit,
		Documents:     f.docs,
		Auth:          f.auth,
		Limiter:       nil, // rate limiting off in handler tests
		Translator:    tr,
		AdminEmail:    "admin@example.com",
		AdminPassword: "admin-pass",
		Logger:        newTestLogger(),
	})
	return f
}
