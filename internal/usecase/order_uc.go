package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kopyalagelsin/storefront/internal/domain"
	"github.com/kopyalagelsin/storefront/internal/domain/model"
	"github.com/kopyalagelsin/storefront/internal/domain/ports/repository"
)

// OrderUseCase is the read side of the order book. Status transitions go
// through CheckoutUseCase only.
type OrderUseCase interface {
	Get(ctx context.Context, id string) (*model.Order, error)
	// GetOwned returns the order only when it belongs to userID.
	GetOwned(ctx context.Context, id, userID string) (*model.Order, error)
	ListForUser(ctx context.Context, userID string) ([]*model.Order, error)
	ListAll(ctx context.Context) ([]*model.Order, error)
}

var _ OrderUseCase = (*orderUC)(nil)

type orderUC struct {
	orders repository.OrderRepository
	log    *zerolog.Logger
}

func NewOrderUseCase(orders repository.OrderRepository, logger *zerolog.Logger) *orderUC {
	return &orderUC{orders: orders, log: logger}
}

func (u *orderUC) Get(ctx context.Context, id string) (*model.Order, error) {
	return u.orders.FindByID(ctx, id)
}

func (u *orderUC) GetOwned(ctx context.Context, id, userID string) (*model.Order, error) {
	o, err := u.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Ownership mismatch is indistinguishable from absence on purpose.
	if o.UserID == "" || o.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (u *orderUC) ListForUser(ctx context.Context, userID string) ([]*model.Order, error) {
	return u.orders.ListByUser(ctx, userID)
}

func (u *orderUC) ListAll(ctx context.Context) ([]*model.Order, error) {
	return u.orders.ListAll(ctx)
}
