package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kopyalagelsin/storefront/internal/domain/model"
	"github.com/kopyalagelsin/storefront/internal/domain/ports/repository"
)

// ConfigUseCase reads and writes the whole AppConfig document.
type ConfigUseCase interface {
	Get(ctx context.Context) (*model.AppConfig, error)
	// Update validates and replaces the document, recording who changed it in
	// the audit log.
	Update(ctx context.Context, cfg *model.AppConfig, adminUser string) error
}

var _ ConfigUseCase = (*configUC)(nil)

type configUC struct {
	configs repository.ConfigRepository
	audit   repository.AuditLogRepository
	log     *zerolog.Logger
}

func NewConfigUseCase(configs repository.ConfigRepository, audit repository.AuditLogRepository, logger *zerolog.Logger) *configUC {
	return &configUC{configs: configs, audit: audit, log: logger}
}

func (u *configUC) Get(ctx context.Context) (*model.AppConfig, error) {
	return u.configs.Load(ctx)
}

func (u *configUC) Update(ctx context.Context, cfg *model.AppConfig, adminUser string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := u.configs.Save(ctx, cfg); err != nil {
		return err
	}
	entry := model.NewLogEntry(model.LogTypeAdmin, "configuration updated", nil)
	entry.AdminUser = adminUser
	if err := u.audit.Append(ctx, entry); err != nil {
		u.log.Warn().Err(err).Msg("audit log append failed")
	}
	return nil
}
