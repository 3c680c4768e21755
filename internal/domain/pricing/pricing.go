// Package pricing holds the pure cost and discount computations. No I/O, no
// clocks except what callers pass in; the checkout use case is the only writer
// of the results.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/kopyalagelsin/storefront/internal/domain"
	"github.com/kopyalagelsin/storefront/internal/domain/model"
)

// Spiral bindings of a single unit get a flat surcharge on thick documents.
// 440 pages falls in the first band, 441 in the second.
var (
	spiralSurchargeMid  = decimal.NewFromInt(20) // 220–440 pages
	spiralSurchargeHigh = decimal.NewFromInt(40) // 441+ pages
)

const (
	pageTierBoundary    = 100 // upTo100 vs over100 per-page rates
	bindingTierBoundary = 10  // upTo10 vs over10 per-unit rates
	spiralBandLow       = 220
	spiralBandHigh      = 440
)

// Totals is the cost breakdown before any discount.
type Totals struct {
	PrintCost    decimal.Decimal
	BindingCost  decimal.Decimal
	ShippingCost decimal.Decimal
	Subtotal     decimal.Decimal
	Tax          decimal.Decimal
	GrandTotal   decimal.Decimal
}

// PerPageRate looks up the per-page price for the spec. Intermediate rates are
// never rounded; only tax and discount amounts round to 2 decimals.
func PerPageRate(cfg *model.PricingConfig, spec model.PrintSpec) decimal.Decimal {
	var rates model.ColorRates
	if spec.Color == model.ColorBlackWhite {
		rates = cfg.A4.BlackWhite
	} else {
		rates = cfg.A4.Color
	}

	var perSide model.PerSideRate
	if spec.Side == model.SideSingle {
		perSide = rates.Single
	} else {
		perSide = rates.Double
	}

	rate := perSide.UpTo100
	if spec.PageCount > pageTierBoundary {
		rate = perSide.Over100
	}

	if spec.Size == model.SizeA3 {
		rate = rate.Mul(cfg.A3Multiplier)
	}
	return rate
}

func printCost(cfg *model.PricingConfig, spec model.PrintSpec) decimal.Decimal {
	if spec.PageCount <= 0 {
		return decimal.Zero
	}
	return PerPageRate(cfg, spec).Mul(decimal.NewFromInt(int64(spec.PageCount)))
}

func bindingCost(cfg *model.PricingConfig, spec model.PrintSpec) decimal.Decimal {
	if spec.BindingType == model.BindingNone || spec.BindingCount <= 0 {
		return decimal.Zero
	}

	rate := cfg.Binding.Spiral
	if spec.BindingType == model.BindingAmerican {
		rate = cfg.Binding.American
	}

	perUnit := rate.UpTo10
	if spec.BindingCount > bindingTierBoundary {
		perUnit = rate.Over10
	}

	cost := perUnit.Mul(decimal.NewFromInt(int64(spec.BindingCount)))
	if spec.Size == model.SizeA3 {
		cost = cost.Mul(cfg.A3Multiplier)
	}

	if spec.BindingType == model.BindingSpiral && spec.BindingCount == 1 {
		switch {
		case spec.PageCount >= spiralBandLow && spec.PageCount <= spiralBandHigh:
			cost = cost.Add(spiralSurchargeMid)
		case spec.PageCount > spiralBandHigh:
			cost = cost.Add(spiralSurchargeHigh)
		}
	}
	return cost
}

// shippingCost walks the tiers in ascending order; the first tier whose cap
// covers the page count wins, the unbounded terminal tier catches the rest.
func shippingCost(cfg *model.PricingConfig, pageCount int) (decimal.Decimal, error) {
	if len(cfg.Shipping) == 0 {
		return decimal.Zero, domain.ErrInvalidArgument
	}
	for _, tier := range cfg.Shipping {
		if tier.MaxPages == nil {
			return tier.Price, nil
		}
		if pageCount <= *tier.MaxPages {
			return tier.Price, nil
		}
	}
	return cfg.Shipping[len(cfg.Shipping)-1].Price, nil
}

// ComputeTotals is the authoritative price computation. Deterministic and
// side-effect free; the checkout use case re-runs it server-side and never
// trusts a client-supplied total.
func ComputeTotals(cfg *model.PricingConfig, spec model.PrintSpec) (Totals, error) {
	ship, err := shippingCost(cfg, spec.PageCount)
	if err != nil {
		return Totals{}, err
	}

	print := printCost(cfg, spec)
	bind := bindingCost(cfg, spec)

	subtotal := print.Add(bind).Add(ship)
	tax := subtotal.Mul(cfg.TaxRate).Round(2)

	return Totals{
		PrintCost:    print,
		BindingCost:  bind,
		ShippingCost: ship,
		Subtotal:     subtotal,
		Tax:          tax,
		GrandTotal:   subtotal.Add(tax),
	}, nil
}

// Tax applies the configured rate to an amount, rounded half-up to 2 decimals.
// Used by checkout to re-tax the subtotal after a discount.
func Tax(cfg *model.PricingConfig, amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(cfg.TaxRate).Round(2)
}
