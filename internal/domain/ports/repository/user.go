package repository

import (
	"context"

	"github.com/kopyalagelsin/storefront/internal/domain/model"
)

type UserRepository interface {
	Save(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByReferralCode(ctx context.Context, code string) (*model.User, error)
	ListAll(ctx context.Context) ([]*model.User, error)
}
