package repository

import (
	"context"

	"github.com/kopyalagelsin/storefront/internal/domain/model"
)

type AuditLogRepository interface {
	// Append stores an entry; the store keeps only the most recent entries.
	Append(ctx context.Context, e model.LogEntry) error
	// ListRecent returns entries newest first.
	ListRecent(ctx context.Context) ([]model.LogEntry, error)
	Clear(ctx context.Context) error
}
