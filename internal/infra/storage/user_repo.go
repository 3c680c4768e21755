package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/kopyalagelsin/storefront/internal/domain"
	"github.com/kopyalagelsin/storefront/internal/domain/model"
	"github.com/kopyalagelsin/storefront/internal/domain/ports/repository"
)

const usersKey = "users.json"

var _ repository.UserRepository = (*UserRepo)(nil)

type UserRepo struct {
	store repository.JSONStore
	mu    sync.Mutex
}

func NewUserRepo(store repository.JSONStore) *UserRepo {
	return &UserRepo{store: store}
}

func (r *UserRepo) readAll(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	if err := r.store.ReadJSON(ctx, usersKey, &users); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return users, nil
}

func (r *UserRepo) Save(ctx context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	users, err := r.readAll(ctx)
	if err != nil {
		return err
	}
	for _, existing := range users {
		if existing.EmailEquals(u.Email) || existing.ID == u.ID {
			return domain.ErrAlreadyExists
		}
	}
	users = append(users, u)
	return r.store.WriteJSON(ctx, usersKey, users)
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	users, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	users, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.EmailEquals(email) {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *UserRepo) FindByReferralCode(ctx context.Context, code string) (*model.User, error) {
	users, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ReferralCode == code {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *UserRepo) ListAll(ctx context.Context) ([]*model.User, error) {
	return r.readAll(ctx)
}
