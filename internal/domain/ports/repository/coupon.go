package repository

import (
	"context"

	"github.com/kopyalagelsin/storefront/internal/domain/model"
)

type CouponRepository interface {
	Save(ctx context.Context, c *model.Coupon) error
	FindByCode(ctx context.Context, code string) (*model.Coupon, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Coupon, error)
	ListAll(ctx context.Context) ([]*model.Coupon, error)
	// IncrementUsage bumps usedCount by one. Idempotency is the caller's
	// responsibility: the checkout use case only calls this on the single
	// pending→paid transition of an order.
	IncrementUsage(ctx context.Context, code string) error
	SetActive(ctx context.Context, code string, active bool) error
}
