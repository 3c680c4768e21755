package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/kopyalagelsin/storefront/internal/domain"
	"github.com/kopyalagelsin/storefront/internal/domain/model"
	"github.com/kopyalagelsin/storefront/internal/domain/ports/repository"
)

const ordersKey = "orders.json"

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo persists all orders as a single JSON document. The mutex
// serializes read-modify-write cycles within this process; the store itself
// offers no isolation, so cross-process races are defended at the use-case
// level via idempotent status checks.
type OrderRepo struct {
	store repository.JSONStore
	mu    sync.Mutex
}

func NewOrderRepo(store repository.JSONStore) *OrderRepo {
	return &OrderRepo{store: store}
}

func (r *OrderRepo) readAll(ctx context.Context) ([]*model.Order, error) {
	var orders []*model.Order
	if err := r.store.ReadJSON(ctx, ordersKey, &orders); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepo) Save(ctx context.Context, o *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	orders, err := r.readAll(ctx)
	if err != nil {
		return err
	}
	for _, existing := range orders {
		if existing.ID == o.ID {
			return domain.ErrAlreadyExists
		}
	}
	orders = append(orders, o)
	return r.store.WriteJSON(ctx, ordersKey, orders)
}

func (r *OrderRepo) Update(ctx context.Context, o *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	orders, err := r.readAll(ctx)
	if err != nil {
		return err
	}
	for i, existing := range orders {
		if existing.ID == o.ID {
			orders[i] = o
			return r.store.WriteJSON(ctx, ordersKey, orders)
		}
	}
	return domain.ErrNotFound
}

func (r *OrderRepo) FindByID(ctx context.Context, id string) (*model.Order, error) {
	orders, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *OrderRepo) FindBySanitizedRef(ctx context.Context, ref string) (*model.Order, error) {
	orders, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.SanitizedID() == ref {
			return o, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]*model.Order, error) {
	orders, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []*model.Order
	for _, o := range orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *OrderRepo) ListAll(ctx context.Context) ([]*model.Order, error) {
	orders, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}
