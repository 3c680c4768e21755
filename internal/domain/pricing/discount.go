package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kopyalagelsin/storefront/internal/domain/model"
)

var hundred = decimal.NewFromInt(100)

// DiscountInput carries everything the discount decision needs. Coupon and
// User may be nil.
type DiscountInput struct {
	BaseAmount decimal.Decimal // print + binding + shipping, pre-tax
	User       *model.User
	Coupon     *model.Coupon
	Now        time.Time
}

// DiscountResult reports whether and how much was discounted. Reason mirrors
// the coupon type when applied.
type DiscountResult struct {
	Applied    bool
	Percent    int
	Amount     decimal.Decimal
	Reason     model.CouponType
	CouponCode string
}

func noDiscount() DiscountResult {
	return DiscountResult{Amount: decimal.Zero}
}

// ComputeDiscount evaluates a coupon against a base amount. A coupon owned by
// a different user yields no discount rather than an error; the caller decides
// whether to warn. The coupon is never mutated here — usage increments happen
// in the checkout use case after the payment is confirmed.
func ComputeDiscount(in DiscountInput) DiscountResult {
	if in.Coupon == nil {
		return noDiscount()
	}
	if in.User != nil && in.Coupon.UserID != in.User.ID {
		return noDiscount()
	}
	if !in.Coupon.Valid(in.Now) {
		return noDiscount()
	}

	percent := in.Coupon.DiscountPercent
	amount := in.BaseAmount.Mul(decimal.NewFromInt(int64(percent))).Div(hundred).Round(2)

	return DiscountResult{
		Applied:    true,
		Percent:    percent,
		Amount:     amount,
		Reason:     in.Coupon.Type,
		CouponCode: in.Coupon.Code,
	}
}
