package repository

import (
	"context"

	"github.com/kopyalagelsin/storefront/internal/domain/model"
)

type ConfigRepository interface {
	// Load returns the stored document normalized against defaults, creating
	// it from defaults when absent.
	Load(ctx context.Context) (*model.AppConfig, error)
	Save(ctx context.Context, cfg *model.AppConfig) error
}
