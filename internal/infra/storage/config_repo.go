package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/kopyalagelsin/storefront/internal/domain"
	"github.com/kopyalagelsin/storefront/internal/domain/model"
	"github.com/kopyalagelsin/storefront/internal/domain/ports/repository"
)

const configKey = "config.json"

var _ repository.ConfigRepository = (*ConfigRepo)(nil)

// ConfigRepo stores the AppConfig document. Older documents missing sections
// are normalized against defaults once at load, then written back so the
// stored form converges.
type ConfigRepo struct {
	store repository.JSONStore
	mu    sync.Mutex
}

func NewConfigRepo(store repository.JSONStore) *ConfigRepo {
	return &ConfigRepo{store: store}
}

func (r *ConfigRepo) Load(ctx context.Context) (*model.AppConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var cfg model.AppConfig
	err := r.store.ReadJSON(ctx, configKey, &cfg)
	if errors.Is(err, domain.ErrNotFound) {
		cfg = model.DefaultAppConfig()
		if werr := r.store.WriteJSON(ctx, configKey, &cfg); werr != nil {
			return nil, werr
		}
		return &cfg, nil
	}
	if err != nil {
		return nil, err
	}

	cfg.Normalize()
	if err := r.store.WriteJSON(ctx, configKey, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *ConfigRepo) Save(ctx context.Context, cfg *model.AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.WriteJSON(ctx, configKey, cfg)
}
