package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/kopyalagelsin/storefront/internal/domain"
	"github.com/kopyalagelsin/storefront/internal/domain/model"
	"github.com/kopyalagelsin/storefront/internal/domain/ports/repository"
	"github.com/kopyalagelsin/storefront/internal/infra/metrics"
)

// Codes read as BRAND + percent + random digits, e.g. KOPYALAGELSIN51234 for
// a 5% code. The digit suffix keeps the space small on purpose — codes are
// typed by humans — so issuance retries on collision.
const (
	couponCodePrefix = "KOPYALAGELSIN"
	maxCodeAttempts  = 10
)

// CouponUseCase is the single-use discount ledger.
type CouponUseCase interface {
	// Issue creates a coupon with a freshly generated unique code. Returns
	// domain.ErrCodeSpaceExhausted when no free code is found within the
	// attempt budget; that is a capacity problem for operators, not a user
	// error.
	Issue(ctx context.Context, userID string, typ model.CouponType, percent int, validFrom time.Time, validUntil *time.Time) (*model.Coupon, error)
	Get(ctx context.Context, code string) (*model.Coupon, error)
	ListForUser(ctx context.Context, userID string) ([]*model.Coupon, error)
	ListAll(ctx context.Context) ([]*model.Coupon, error)
	// RedeemOnce increments the usage counter. Callers guarantee at-most-once
	// per order by only calling on the pending→paid transition.
	RedeemOnce(ctx context.Context, code string) error
	SetActive(ctx context.Context, code string, active bool) error
}

var _ CouponUseCase = (*couponUC)(nil)

type couponUC struct {
	coupons repository.CouponRepository
	log     *zerolog.Logger
}

func NewCouponUseCase(coupons repository.CouponRepository, logger *zerolog.Logger) *couponUC {
	return &couponUC{coupons: coupons, log: logger}
}

func (u *couponUC) Issue(ctx context.Context, userID string, typ model.CouponType, percent int, validFrom time.Time, validUntil *time.Time) (*model.Coupon, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := generateCouponCode(percent)

		if _, err := u.coupons.FindByCode(ctx, code); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}

		c, err := model.NewCoupon(code, userID, typ, percent, validFrom, validUntil)
		if err != nil {
			return nil, err
		}
		if err := u.coupons.Save(ctx, c); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				continue // lost the race for this code, try another
			}
			return nil, err
		}

		metrics.IncCouponIssued(string(typ))
		u.log.Info().Str("code", code).Str("user_id", userID).Str("type", string(typ)).Msg("coupon issued")
		return c, nil
	}
	return nil, domain.ErrCodeSpaceExhausted
}

func (u *couponUC) Get(ctx context.Context, code string) (*model.Coupon, error) {
	return u.coupons.FindByCode(ctx, code)
}

func (u *couponUC) ListForUser(ctx context.Context, userID string) ([]*model.Coupon, error) {
	return u.coupons.ListByUser(ctx, userID)
}

func (u *couponUC) ListAll(ctx context.Context) ([]*model.Coupon, error) {
	return u.coupons.ListAll(ctx)
}

func (u *couponUC) RedeemOnce(ctx context.Context, code string) error {
	c, err := u.coupons.FindByCode(ctx, code)
	if err != nil {
		return err
	}
	if err := u.coupons.IncrementUsage(ctx, code); err != nil {
		return err
	}
	metrics.IncCouponRedeemed(string(c.Type))
	return nil
}

func (u *couponUC) SetActive(ctx context.Context, code string, active bool) error {
	return u.coupons.SetActive(ctx, code, active)
}

func generateCouponCode(percent int) string {
	suffix := 1000 + rand.Intn(9000)
	return fmt.Sprintf("%s%d%d", couponCodePrefix, percent, suffix)
}
