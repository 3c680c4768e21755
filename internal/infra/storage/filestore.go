// Package storage provides the whole-document JSON persistence used for
// orders, users, coupons, configuration and the audit log, plus a local-disk
// document store for uploaded files. The deployment decides at wiring time
// which JSONStore implementation backs the repositories; nothing below the
// ports layer branches on environment.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/kopyalagelsin/storefront/internal/domain"
	"github.com/kopyalagelsin/storefront/internal/domain/ports/repository"
)

var _ repository.JSONStore = (*FileStore)(nil)

// FileStore keeps each document as one pretty-printed JSON file under dir.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) ReadJSON(_ context.Context, key string, out any) error {
	b, err := os.ReadFile(filepath.Join(s.dir, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// WriteJSON replaces the document via a temp-file rename so a crash mid-write
// never leaves a torn file behind.
func (s *FileStore) WriteJSON(_ context.Context, key string, value any) error {
	b, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	tmp := filepath.Join(s.dir, key+".tmp")
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, key)); err != nil {
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

var _ repository.DocumentStore = (*FileDocumentStore)(nil)

// FileDocumentStore stores uploaded customer files on local disk and issues
// /uploads/ reference URLs.
type FileDocumentStore struct {
	dir string
}

func NewFileDocumentStore(dir string) (*FileDocumentStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileDocumentStore{dir: dir}, nil
}

func (s *FileDocumentStore) Put(_ context.Context, name string, data []byte) (string, error) {
	fname := uuid.NewString() + "_" + filepath.Base(name)
	if err := os.WriteFile(filepath.Join(s.dir, fname), data, 0o644); err != nil {
		return "", fmt.Errorf("store document: %w", err)
	}
	return "/uploads/" + fname, nil
}

func (s *FileDocumentStore) Get(_ context.Context, url string) ([]byte, error) {
	fname := filepath.Base(strings.TrimPrefix(url, "/uploads/"))
	if fname == "" || fname == "." || fname == ".." {
		return nil, domain.ErrInvalidArgument
	}
	b, err := os.ReadFile(filepath.Join(s.dir, fname))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("read document: %w", err)
	}
	return b, nil
}
