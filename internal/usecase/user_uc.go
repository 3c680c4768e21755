package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kopyalagelsin/storefront/internal/domain"
	"github.com/kopyalagelsin/storefront/internal/domain/model"
	"github.com/kopyalagelsin/storefront/internal/domain/ports/repository"
)

const (
	minPasswordLen          = 6
	maxReferralCodeAttempts = 10
	bcryptCost              = 10
)

// UserUseCase covers registration, login and account reads.
type UserUseCase interface {
	// Register creates the account, resolves the referrer from the optional
	// referral code, and issues a welcome coupon when the marketing program
	// allows it. An unknown referral code is ignored, not rejected.
	Register(ctx context.Context, name, email, password, referredByCode string) (*model.User, error)
	// Authenticate verifies credentials; wrong email and wrong password are
	// indistinguishable to the caller.
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
}

var _ UserUseCase = (*userUC)(nil)

type userUC struct {
	users   repository.UserRepository
	configs repository.ConfigRepository
	coupons CouponUseCase
	log     *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, configs repository.ConfigRepository, coupons CouponUseCase, logger *zerolog.Logger) *userUC {
	return &userUC{users: users, configs: configs, coupons: coupons, log: logger}
}

func (u *userUC) Register(ctx context.Context, name, email, password, referredByCode string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || len(password) < minPasswordLen {
		return nil, domain.ErrInvalidArgument
	}

	if _, err := u.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrAlreadyExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	var referredByID string
	if referredByCode != "" {
		if referrer, err := u.users.FindByReferralCode(ctx, referredByCode); err == nil {
			referredByID = referrer.ID
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	code, err := u.freeReferralCode(ctx, name)
	if err != nil {
		return nil, err
	}

	user, err := model.NewUser(name, email, string(hash), code, referredByID)
	if err != nil {
		return nil, err
	}
	if err := u.users.Save(ctx, user); err != nil {
		return nil, err
	}

	u.issueWelcomeCoupon(ctx, user)
	return user, nil
}

// issueWelcomeCoupon grants the new-member discount when the program is
// enabled and open. Issuance failure must not fail the registration that
// triggered it.
func (u *userUC) issueWelcomeCoupon(ctx context.Context, user *model.User) {
	cfg, err := u.configs.Load(ctx)
	if err != nil {
		u.log.Warn().Err(err).Msg("welcome coupon skipped: config load failed")
		return
	}

	now := time.Now().UTC()
	m := &cfg.Marketing
	if !m.WelcomeWindowOpen(now) {
		return
	}

	validFrom := now
	if m.WelcomeValidFrom != nil {
		validFrom = *m.WelcomeValidFrom
	}
	if _, err := u.coupons.Issue(ctx, user.ID, model.CouponTypeWelcome, m.WelcomeDiscountPercent, validFrom, m.WelcomeValidUntil); err != nil {
		u.log.Warn().Err(err).Str("user_id", user.ID).Msg("welcome coupon issuance failed")
	}
}

func (u *userUC) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (u *userUC) Get(ctx context.Context, id string) (*model.User, error) {
	return u.users.FindByID(ctx, id)
}

func (u *userUC) freeReferralCode(ctx context.Context, name string) (string, error) {
	for attempt := 0; attempt < maxReferralCodeAttempts; attempt++ {
		code := generateReferralCode(name)
		if _, err := u.users.FindByReferralCode(ctx, code); errors.Is(err, domain.ErrNotFound) {
			return code, nil
		} else if err != nil {
			return "", err
		}
	}
	return "", domain.ErrCodeSpaceExhausted
}

// generateReferralCode builds EMIR1234-style codes: first four ASCII letters
// of the name (X-padded) plus four digits.
func generateReferralCode(name string) string {
	var letters []rune
	for _, r := range strings.ToUpper(name) {
		if r >= 'A' && r <= 'Z' {
			letters = append(letters, r)
			if len(letters) == 4 {
				break
			}
		}
	}
	for len(letters) < 4 {
		letters = append(letters, 'X')
	}
	return fmt.Sprintf("%s%d", string(letters), 1000+rand.Intn(9000))
}
