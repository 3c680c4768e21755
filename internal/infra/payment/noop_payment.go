package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/kopyalagelsin/storefront/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*NoopPaymentGateway)(nil)

// NoopPaymentGateway is an in-memory gateway for tests and local development.
// Every session succeeds and every notification verifies.
type NoopPaymentGateway struct {
	mu       sync.Mutex
	seq      int64
	sessions map[string]int64 // order ref -> amount (minor units)
}

func NewNoopPaymentGateway() *NoopPaymentGateway {
	return &NoopPaymentGateway{sessions: make(map[string]int64)}
}

func (g *NoopPaymentGateway) Name() string { return "noop" }

func (g *NoopPaymentGateway) CreateSession(ctx context.Context, req adapter.SessionRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	g.sessions[req.OrderRef] = req.AmountMinor
	return fmt.Sprintf("noop-token-%d", g.seq), nil
}

func (g *NoopPaymentGateway) VerifyNotification(n adapter.Notification) bool {
	return true
}

// SessionAmount exposes the recorded amount for assertions in tests.
func (g *NoopPaymentGateway) SessionAmount(orderRef string) (int64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	amt, ok := g.sessions[orderRef]
	return amt, ok
}
