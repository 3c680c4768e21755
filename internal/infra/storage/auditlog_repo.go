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

const (
	logsKey = "logs.json"

	// Entries kept in the stored document, newest first.
	maxLogEntries = 1000
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

type AuditLogRepo struct {
	store repository.JSONStore
	mu    sync.Mutex
}

func NewAuditLogRepo(store repository.JSONStore) *AuditLogRepo {
	return &AuditLogRepo{store: store}
}

func (r *AuditLogRepo) readAll(ctx context.Context) ([]model.LogEntry, error) {
	var entries []model.LogEntry
	if err := r.store.ReadJSON(ctx, logsKey, &entries); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return entries, nil
}

func (r *AuditLogRepo) Append(ctx context.Context, e model.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries, err := r.readAll(ctx)
	if err != nil {
		return err
	}
	entries = append(entries, e)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Timestamp.After(entries[j].Timestamp) })
	if len(entries) > maxLogEntries {
		entries = entries[:maxLogEntries]
	}
	return r.store.WriteJSON(ctx, logsKey, entries)
}

func (r *AuditLogRepo) ListRecent(ctx context.Context) ([]model.LogEntry, error) {
	entries, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Timestamp.After(entries[j].Timestamp) })
	return entries, nil
}

func (r *AuditLogRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.WriteJSON(ctx, logsKey, []model.LogEntry{})
}
