//go:build !integration

package usecase_test

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kopyalagelsin/storefront/internal/domain"
	"github.com/kopyalagelsin/storefront/internal/domain/model"
	"github.com/kopyalagelsin/storefront/internal/domain/ports/adapter"
	"github.com/kopyalagelsin/storefront/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// ---- Mock OrderRepository ----

type MockOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*model.Order

	SaveFunc   func(ctx context.Context, o *model.Order) error
	UpdateFunc func(ctx context.Context, o *model.Order) error
}

var _ repository.OrderRepository = (*MockOrderRepo)(nil)

func NewMockOrderRepo() *MockOrderRepo {
	return &MockOrderRepo{orders: make(map[string]*model.Order)}
}

func (m *MockOrderRepo) Save(ctx context.Context, o *model.Order) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, o)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *MockOrderRepo) Update(ctx context.Context, o *model.Order) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, o)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[o.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *MockOrderRepo) FindByID(ctx context.Context, id string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *MockOrderRepo) FindBySanitizedRef(ctx context.Context, ref string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.SanitizedID() == ref {
			cp := *o
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockOrderRepo) ListByUser(ctx context.Context, userID string) ([]*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockOrderRepo) ListAll(ctx context.Context) ([]*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Order
	for _, o := range m.orders {
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Stored returns the persisted copy for assertions.
func (m *MockOrderRepo) Stored(id string) *model.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders[id]
}

// ---- Mock CouponRepository ----

type MockCouponRepo struct {
	mu      sync.Mutex
	coupons map[string]*model.Coupon

	SaveFunc           func(ctx context.Context, c *model.Coupon) error
	FindByCodeFunc     func(ctx context.Context, code string) (*model.Coupon, error)
	IncrementUsageFunc func(ctx context.Context, code string) error
}

var _ repository.CouponRepository = (*MockCouponRepo)(nil)

func NewMockCouponRepo() *MockCouponRepo {
	return &MockCouponRepo{coupons: make(map[string]*model.Coupon)}
}

func (m *MockCouponRepo) Save(ctx context.Context, c *model.Coupon) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.coupons[c.Code]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *c
	m.coupons[c.Code] = &cp
	return nil
}

func (m *MockCouponRepo) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	if m.FindByCodeFunc != nil {
		return m.FindByCodeFunc(ctx, code)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.coupons[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MockCouponRepo) ListByUser(ctx context.Context, userID string) ([]*model.Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Coupon
	for _, c := range m.coupons {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockCouponRepo) ListAll(ctx context.Context) ([]*model.Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Coupon
	for _, c := range m.coupons {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockCouponRepo) IncrementUsage(ctx context.Context, code string) error {
	if m.IncrementUsageFunc != nil {
		return m.IncrementUsageFunc(ctx, code)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.coupons[code]
	if !ok {
		return domain.ErrNotFound
	}
	c.UsedCount++
	return nil
}

func (m *MockCouponRepo) SetActive(ctx context.Context, code string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.coupons[code]
	if !ok {
		return domain.ErrNotFound
	}
	c.IsActive = active
	return nil
}

func (m *MockCouponRepo) Stored(code string) *model.Coupon {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.coupons[code]
}

// ---- Mock UserRepository ----

type MockUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User

	SaveFunc func(ctx context.Context, u *model.User) error
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{users: make(map[string]*model.User)}
}

func (m *MockUserRepo) Save(ctx context.Context, u *model.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, u)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *MockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.EmailEquals(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepo) FindByReferralCode(ctx context.Context, code string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ReferralCode == code {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepo) ListAll(ctx context.Context) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.User
	for _, u := range m.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

// ---- Mock ConfigRepository ----

type MockConfigRepo struct {
	mu  sync.Mutex
	cfg model.AppConfig

	LoadFunc func(ctx context.Context) (*model.AppConfig, error)
	SaveFunc func(ctx context.Context, cfg *model.AppConfig) error
}

var _ repository.ConfigRepository = (*MockConfigRepo)(nil)

func NewMockConfigRepo() *MockConfigRepo {
	return &MockConfigRepo{cfg: model.DefaultAppConfig()}
}

func (m *MockConfigRepo) Load(ctx context.Context) (*model.AppConfig, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := m.cfg
	return &cp, nil
}

func (m *MockConfigRepo) Save(ctx context.Context, cfg *model.AppConfig) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, cfg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = *cfg
	return nil
}

// Mutate adjusts the stored document under lock for test setup.
func (m *MockConfigRepo) Mutate(fn func(*model.AppConfig)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.cfg)
}

// ---- Mock AuditLogRepository ----

type MockAuditRepo struct {
	mu      sync.Mutex
	Entries []model.LogEntry

	AppendFunc func(ctx context.Context, e model.LogEntry) error
}

var _ repository.AuditLogRepository = (*MockAuditRepo)(nil)

func NewMockAuditRepo() *MockAuditRepo { return &MockAuditRepo{} }

func (m *MockAuditRepo) Append(ctx context.Context, e model.LogEntry) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, e)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, e)
	return nil
}

func (m *MockAuditRepo) ListRecent(ctx context.Context) ([]model.LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.LogEntry, len(m.Entries))
	copy(out, m.Entries)
	return out, nil
}

func (m *MockAuditRepo) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = nil
	return nil
}

// ---- Mock PaymentGateway ----

type MockPaymentGateway struct {
	mu       sync.Mutex
	Sessions []adapter.SessionRequest

	CreateSessionFunc      func(ctx context.Context, req adapter.SessionRequest) (string, error)
	VerifyNotificationFunc func(n adapter.Notification) bool
}

var _ adapter.PaymentGateway = (*MockPaymentGateway)(nil)

func (m *MockPaymentGateway) Name() string { return "mock" }

func (m *MockPaymentGateway) CreateSession(ctx context.Context, req adapter.SessionRequest) (string, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, req)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sessions = append(m.Sessions, req)
	return "mock-token", nil
}

func (m *MockPaymentGateway) VerifyNotification(n adapter.Notification) bool {
	if m.VerifyNotificationFunc != nil {
		return m.VerifyNotificationFunc(n)
	}
	return true
}
