package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kopyalagelsin/storefront/internal/domain"
)

type PaperSize string

const (
	SizeA4 PaperSize = "A4"
	SizeA3 PaperSize = "A3"
)

type ColorMode string

const (
	ColorBlackWhite ColorMode = "siyah_beyaz"
	ColorFull       ColorMode = "renkli"
)

type SideMode string

const (
	SideSingle SideMode = "tek"
	SideDouble SideMode = "cift"
)

type BindingType string

const (
	BindingNone     BindingType = "none"
	BindingSpiral   BindingType = "spiral"
	BindingAmerican BindingType = "american"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending" // created, awaiting gateway notification
	OrderStatusPaid    OrderStatus = "paid"    // terminal
	OrderStatusFailed  OrderStatus = "failed"  // terminal
)

// PrintSpec is the physical description of the job. It is the sole input to
// the pricing engine besides the rate table.
type PrintSpec struct {
	Size         PaperSize   `json:"size"`
	Color        ColorMode   `json:"color"`
	Side         SideMode    `json:"side"`
	PageCount    int         `json:"pageCount"`
	BindingType  BindingType `json:"bindingType"`
	BindingCount int         `json:"bindingCount"`
}

func (s PrintSpec) Validate() error {
	switch s.Size {
	case SizeA4, SizeA3:
	default:
		return domain.ErrInvalidArgument
	}
	switch s.Color {
	case ColorBlackWhite, ColorFull:
	default:
		return domain.ErrInvalidArgument
	}
	switch s.Side {
	case SideSingle, SideDouble:
	default:
		return domain.ErrInvalidArgument
	}
	switch s.BindingType {
	case BindingNone, BindingSpiral, BindingAmerican:
	default:
		return domain.ErrInvalidArgument
	}
	if s.PageCount <= 0 {
		return domain.ErrInvalidArgument
	}
	return nil
}

// Customer holds contact and shipping fields captured at checkout.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes,omitempty"`
}

func (c Customer) Validate() error {
	if c.Name == "" || c.Email == "" || c.Phone == "" || c.Address == "" {
		return domain.ErrInvalidArgument
	}
	return nil
}

// DocumentRef points at the uploaded file in the document store.
type DocumentRef struct {
	URL       string `json:"url"`
	Name      string `json:"name,omitempty"`
	SizeBytes int64  `json:"sizeBytes,omitempty"`
}

// PriceBreakdown is the authoritative server-side cost computation persisted
// with the order. Subtotal is the pre-discount, pre-tax amount.
type PriceBreakdown struct {
	PrintCost       decimal.Decimal `json:"printCost"`
	BindingCost     decimal.Decimal `json:"bindingCost"`
	ShippingCost    decimal.Decimal `json:"shippingCost"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountPercent int             `json:"discountPercent,omitempty"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	CouponCode      string          `json:"couponCode,omitempty"`
	Tax             decimal.Decimal `json:"tax"`
	GrandTotal      decimal.Decimal `json:"grandTotal"`
}

// Order is the purchase aggregate. Identity and print attributes are fixed at
// creation; only the payment status and transaction reference mutate, and only
// through MarkPaid/MarkFailed.
type Order struct {
	ID        string      `json:"id"`
	CreatedAt time.Time   `json:"createdAt"`
	UserID    string      `json:"userId,omitempty"`
	Customer  Customer    `json:"customer"`
	Spec      PrintSpec   `json:"spec"`
	Document  DocumentRef `json:"document"`

	Breakdown PriceBreakdown `json:"breakdown"`

	Status        OrderStatus `json:"status"`
	TransactionID string      `json:"transactionId,omitempty"`
}

// NewOrder builds a pending order. Callers (the checkout use case) must have
// recomputed and validated the breakdown before this point.
func NewOrder(userID string, cust Customer, spec PrintSpec, doc DocumentRef, breakdown PriceBreakdown) (*Order, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if err := cust.Validate(); err != nil {
		return nil, err
	}
	if doc.URL == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Order{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		UserID:    userID,
		Customer:  cust,
		Spec:      spec,
		Document:  doc,
		Breakdown: breakdown,
		Status:    OrderStatusPending,
	}, nil
}

func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusPaid || o.Status == OrderStatusFailed
}

// MarkPaid transitions the order to paid and records the gateway transaction
// reference. Returns false without touching the order when it is already in a
// terminal state, so duplicate notifications are recognized no-ops.
func (o *Order) MarkPaid(transactionID string) bool {
	if o.IsTerminal() {
		return false
	}
	o.Status = OrderStatusPaid
	o.TransactionID = transactionID
	return true
}

// MarkFailed transitions the order to failed. The transaction reference is
// kept when the processor supplied one, for audit.
func (o *Order) MarkFailed(transactionID string) bool {
	if o.IsTerminal() {
		return false
	}
	o.Status = OrderStatusFailed
	if transactionID != "" {
		o.TransactionID = transactionID
	}
	return true
}

// SanitizedID returns the order id as the payment processor round-trips it:
// non-alphanumerics stripped, lowercased. The processor's merchant_oid field
// cannot carry UUID dashes, so callback correlation goes through this form.
func (o *Order) SanitizedID() string {
	return SanitizeOrderRef(o.ID)
}

func SanitizeOrderRef(id string) string {
	var b strings.Builder
	b.Grow(len(id))
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}
