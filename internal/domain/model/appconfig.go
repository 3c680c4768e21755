package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kopyalagelsin/storefront/internal/domain"
)

// ShippingTier is one bucket of the page-count shipping table. MaxPages nil
// marks the single unbounded terminal tier.
type ShippingTier struct {
	MaxPages *int            `json:"maxPages"`
	Price    decimal.Decimal `json:"price"`
}

// PerSideRate is a per-page price split by page-count tier.
type PerSideRate struct {
	UpTo100 decimal.Decimal `json:"upTo100"`
	Over100 decimal.Decimal `json:"over100"`
}

type ColorRates struct {
	Single PerSideRate `json:"single"`
	Double PerSideRate `json:"double"`
}

// A4Rates is the base rate table; A3 derives from it via A3Multiplier.
type A4Rates struct {
	BlackWhite ColorRates `json:"blackWhite"`
	Color      ColorRates `json:"color"`
}

// BindingRate is a per-unit binding price split by unit-count tier.
type BindingRate struct {
	UpTo10 decimal.Decimal `json:"upTo10"`
	Over10 decimal.Decimal `json:"over10"`
}

type BindingRates struct {
	Spiral   BindingRate `json:"spiral"`
	American BindingRate `json:"american"`
}

// PricingConfig is the full rate table the pricing engine evaluates against.
type PricingConfig struct {
	A4           A4Rates         `json:"a4"`
	A3Multiplier decimal.Decimal `json:"a3Multiplier"`
	Shipping     []ShippingTier  `json:"shipping"`
	Binding      BindingRates    `json:"binding"`
	TaxRate      decimal.Decimal `json:"taxRate"` // fraction, e.g. 0.20
}

// Validate enforces the structural invariants the pricing engine assumes:
// a positive A3 multiplier and a non-empty ascending shipping table whose one
// and only unbounded tier sits last.
func (p *PricingConfig) Validate() error {
	if p.A3Multiplier.Sign() <= 0 {
		return domain.ErrInvalidArgument
	}
	if len(p.Shipping) == 0 {
		return domain.ErrInvalidArgument
	}
	prev := -1
	for i, tier := range p.Shipping {
		if tier.MaxPages == nil {
			if i != len(p.Shipping)-1 {
				return domain.ErrInvalidArgument
			}
			continue
		}
		if *tier.MaxPages <= prev {
			return domain.ErrInvalidArgument
		}
		prev = *tier.MaxPages
	}
	if p.Shipping[len(p.Shipping)-1].MaxPages != nil {
		return domain.ErrInvalidArgument
	}
	return nil
}

// MarketingConfig drives coupon issuance: the welcome grant at registration
// and the referral grant on a referee's first paid order.
type MarketingConfig struct {
	EnableSignupPopup bool `json:"enableSignupPopup"`

	EnableWelcomeDiscount  bool       `json:"enableMemberWelcomeDiscount"`
	WelcomeDiscountPercent int        `json:"memberWelcomeDiscountPercent"`
	WelcomeValidFrom       *time.Time `json:"memberWelcomeValidFrom"`
	WelcomeValidUntil      *time.Time `json:"memberWelcomeValidUntil"`

	EnableReferralProgram   bool       `json:"enableReferralProgram"`
	ReferralDiscountPercent int        `json:"referralDiscountPercent"`
	ReferralValidFrom       *time.Time `json:"referralValidFrom"`
	ReferralValidUntil      *time.Time `json:"referralValidUntil"`
}

// WelcomeWindowOpen reports whether the welcome program accepts issuance now.
func (m *MarketingConfig) WelcomeWindowOpen(now time.Time) bool {
	return m.EnableWelcomeDiscount && windowOpen(now, m.WelcomeValidFrom, m.WelcomeValidUntil)
}

// ReferralWindowOpen reports whether the referral program accepts issuance now.
func (m *MarketingConfig) ReferralWindowOpen(now time.Time) bool {
	return m.EnableReferralProgram && windowOpen(now, m.ReferralValidFrom, m.ReferralValidUntil)
}

func windowOpen(now time.Time, from, until *time.Time) bool {
	if from != nil && now.Before(*from) {
		return false
	}
	if until != nil && now.After(*until) {
		return false
	}
	return true
}

// AnnouncementBar, Banner and Footer are site-content settings carried in the
// same document as pricing. The core never reads them; admin CRUD round-trips
// them untouched.
type AnnouncementBar struct {
	Enabled         bool   `json:"enabled"`
	Text            string `json:"text"`
	Link            string `json:"link,omitempty"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
}

type Banner struct {
	Title              string `json:"title"`
	Subtitle           string `json:"subtitle"`
	ButtonText         string `json:"buttonText"`
	ButtonLink         string `json:"buttonLink"`
	BackgroundColor    string `json:"backgroundColor"`
	BackgroundColorEnd string `json:"backgroundColorEnd"`
	TextColor          string `json:"textColor"`
	ImageEnabled       bool   `json:"imageEnabled"`
	ImagePath          string `json:"imagePath,omitempty"`
}

type Footer struct {
	Description string `json:"description"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	Copyright   string `json:"copyright"`
}

type UIConfig struct {
	AnnouncementBar AnnouncementBar `json:"announcementBar"`
	Banner          Banner          `json:"banner"`
	Footer          Footer          `json:"footer"`
}

// AppConfig is the single whole-document configuration record.
type AppConfig struct {
	Pricing   PricingConfig   `json:"pricing"`
	Marketing MarketingConfig `json:"marketing"`
	UI        UIConfig        `json:"ui"`
}

func (c *AppConfig) Validate() error {
	return c.Pricing.Validate()
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func intPtr(v int) *int { return &v }

// DefaultPricingConfig returns the launch rate table. The admin panel edits
// the stored document from this starting point.
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		A4: A4Rates{
			BlackWhite: ColorRates{
				Single: PerSideRate{UpTo100: dec("0.75"), Over100: dec("0.5")},
				Double: PerSideRate{UpTo100: dec("1.75"), Over100: dec("1.5")},
			},
			Color: ColorRates{
				Single: PerSideRate{UpTo100: dec("0.9"), Over100: dec("0.7")},
				Double: PerSideRate{UpTo100: dec("1.85"), Over100: dec("1.6")},
			},
		},
		A3Multiplier: dec("2"),
		Shipping: []ShippingTier{
			{MaxPages: intPtr(500), Price: dec("125")},
			{MaxPages: intPtr(1000), Price: dec("180")},
			{MaxPages: intPtr(1500), Price: dec("220")},
			{MaxPages: intPtr(2000), Price: dec("240")},
			{MaxPages: nil, Price: dec("0")}, // 2000+ ships free
		},
		Binding: BindingRates{
			Spiral:   BindingRate{UpTo10: dec("40"), Over10: dec("30")},
			American: BindingRate{UpTo10: dec("30"), Over10: dec("25")},
		},
		TaxRate: dec("0.20"),
	}
}

func DefaultMarketingConfig() MarketingConfig {
	return MarketingConfig{
		EnableSignupPopup:       true,
		EnableWelcomeDiscount:   true,
		WelcomeDiscountPercent:  5,
		EnableReferralProgram:   true,
		ReferralDiscountPercent: 5,
	}
}

func DefaultUIConfig() UIConfig {
	return UIConfig{
		AnnouncementBar: AnnouncementBar{
			Enabled:         true,
			Text:            "Yeni üyelere özel %5 indirim! Hemen üye olun ve kuponunuzu kazanın.",
			Link:            "/uye-ol",
			BackgroundColor: "#3b82f6",
			TextColor:       "#ffffff",
		},
		Banner: Banner{
			Title:              "Öğrenciler için uygun fiyatlı dijital çıktı hizmeti",
			Subtitle:           "PDF dosyanı yükle, baskı seçeneklerini seç, online öde, çıktın kapına gelsin.",
			ButtonText:         "Çıktı Siparişi Ver",
			ButtonLink:         "#siparis",
			BackgroundColor:    "#2563eb",
			BackgroundColorEnd: "#1e40af",
			TextColor:          "#ffffff",
			ImageEnabled:       true,
			ImagePath:          "/logo/favicon.png",
		},
		Footer: Footer{
			Description: "Öğrenciler için uygun fiyatlı dijital çıktı hizmeti.",
			Phone:       "+90 (XXX) XXX XX XX",
			Email:       "info@kopyalagelsin.com",
			Address:     "Örnek Mahalle, Örnek Sokak No:1, İstanbul",
			Copyright:   "© kopyalagelsin. Tüm hakları saklıdır.",
		},
	}
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		Pricing:   DefaultPricingConfig(),
		Marketing: DefaultMarketingConfig(),
		UI:        DefaultUIConfig(),
	}
}

// Normalize fills sections absent from an older stored document with their
// defaults. Runs once at load; read sites never default ad hoc.
func (c *AppConfig) Normalize() {
	if len(c.Pricing.Shipping) == 0 && c.Pricing.A3Multiplier.IsZero() {
		c.Pricing = DefaultPricingConfig()
	}
	if c.Marketing.WelcomeDiscountPercent == 0 && c.Marketing.ReferralDiscountPercent == 0 {
		c.Marketing = DefaultMarketingConfig()
	}
	if c.UI.Banner.Title == "" && c.UI.Footer.Email == "" {
		c.UI = DefaultUIConfig()
	}
}
