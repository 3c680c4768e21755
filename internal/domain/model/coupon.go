package model

import (
	"time"

	"github.com/kopyalagelsin/storefront/internal/domain"
)

type CouponType string

const (
	CouponTypeWelcome  CouponType = "WELCOME"
	CouponTypeReferral CouponType = "REFERRAL"
)

// Coupon is a single-use discount grant owned by one user. The code itself is
// the identity; it embeds the percent for traceability when customers read it
// back over the phone.
type Coupon struct {
	Code            string     `json:"code"`
	UserID          string     `json:"userId"`
	Type            CouponType `json:"type"`
	DiscountPercent int        `json:"discountPercent"`
	ValidFrom       time.Time  `json:"validFrom"`
	ValidUntil      *time.Time `json:"validUntil"`
	IsActive        bool       `json:"isActive"`
	MaxUses         int        `json:"maxUses"` // always 1 today; counter kept for future multi-use codes
	UsedCount       int        `json:"usedCount"`
	CreatedAt       time.Time  `json:"createdAt"`
}

func NewCoupon(code, userID string, typ CouponType, percent int, validFrom time.Time, validUntil *time.Time) (*Coupon, error) {
	if code == "" || userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if percent <= 0 || percent > 100 {
		return nil, domain.ErrInvalidArgument
	}
	switch typ {
	case CouponTypeWelcome, CouponTypeReferral:
	default:
		return nil, domain.ErrInvalidArgument
	}
	return &Coupon{
		Code:            code,
		UserID:          userID,
		Type:            typ,
		DiscountPercent: percent,
		ValidFrom:       validFrom,
		ValidUntil:      validUntil,
		IsActive:        true,
		MaxUses:         1,
		UsedCount:       0,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// Valid reports whether the coupon can be redeemed at the given instant.
// Ownership is checked separately by the discount engine.
func (c *Coupon) Valid(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.UsedCount >= c.MaxUses {
		return false
	}
	if now.Before(c.ValidFrom) {
		return false
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return false
	}
	return true
}
