package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/kopyalagelsin/storefront/internal/domain"
	"github.com/kopyalagelsin/storefront/internal/domain/model"
	"github.com/kopyalagelsin/storefront/internal/domain/ports/repository"
)

const couponsKey = "coupons.json"

var _ repository.CouponRepository = (*CouponRepo)(nil)

type CouponRepo struct {
	store repository.JSONStore
	mu    sync.Mutex
}

func NewCouponRepo(store repository.JSONStore) *CouponRepo {
	return &CouponRepo{store: store}
}

func (r *CouponRepo) readAll(ctx context.Context) ([]*model.Coupon, error) {
	var coupons []*model.Coupon
	if err := r.store.ReadJSON(ctx, couponsKey, &coupons); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return coupons, nil
}

func (r *CouponRepo) Save(ctx context.Context, c *model.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	coupons, err := r.readAll(ctx)
	if err != nil {
		return err
	}
	for _, existing := range coupons {
		if existing.Code == c.Code {
			return domain.ErrAlreadyExists
		}
	}
	coupons = append(coupons, c)
	return r.store.WriteJSON(ctx, couponsKey, coupons)
}

func (r *CouponRepo) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	coupons, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range coupons {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *CouponRepo) ListByUser(ctx context.Context, userID string) ([]*model.Coupon, error) {
	coupons, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []*model.Coupon
	for _, c := range coupons {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *CouponRepo) ListAll(ctx context.Context) ([]*model.Coupon, error) {
	return r.readAll(ctx)
}

func (r *CouponRepo) IncrementUsage(ctx context.Context, code string) error {
	return r.mutate(ctx, code, func(c *model.Coupon) {
		c.UsedCount++
	})
}

func (r *CouponRepo) SetActive(ctx context.Context, code string, active bool) error {
	return r.mutate(ctx, code, func(c *model.Coupon) {
		c.IsActive = active
	})
}

func (r *CouponRepo) mutate(ctx context.Context, code string, fn func(*model.Coupon)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	coupons, err := r.readAll(ctx)
	if err != nil {
		return err
	}
	for _, c := range coupons {
		if c.Code == code {
			fn(c)
			return r.store.WriteJSON(ctx, couponsKey, coupons)
		}
	}
	return domain.ErrNotFound
}
