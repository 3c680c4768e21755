package repository

import (
	"context"

	"github.com/kopyalagelsin/storefront/internal/domain/model"
)

type OrderRepository interface {
	Save(ctx context.Context, o *model.Order) error
	// Update rewrites an existing order (status transition). ErrNotFound when
	// the id is unknown.
	Update(ctx context.Context, o *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	// FindBySanitizedRef resolves the processor's stripped/lowercased
	// merchant_oid back to the stored order.
	FindBySanitizedRef(ctx context.Context, ref string) (*model.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Order, error)
	ListAll(ctx context.Context) ([]*model.Order, error)
}
