package usecase

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/kopyalagelsin/storefront/internal/domain"
	"github.com/kopyalagelsin/storefront/internal/domain/model"
	"github.com/kopyalagelsin/storefront/internal/domain/ports/adapter"
	"github.com/kopyalagelsin/storefront/internal/domain/ports/repository"
	"github.com/kopyalagelsin/storefront/internal/domain/pricing"
	"github.com/kopyalagelsin/storefront/internal/infra/logging"
	"github.com/kopyalagelsin/storefront/internal/infra/metrics"
)

// priceEpsilon is the fixed-point tolerance when comparing the client's
// claimed total against the server recomputation.
var priceEpsilon = decimal.New(1, -2) // 0.01

const basketLabel = "Dijital Çıktı Siparişi"

// notifyAckOK is the exact plain-text body the processor expects. Anything
// else makes it retry the notification indefinitely.
const (
	notifyAckOK     = "OK"
	notifyAckFailed = "FAILED"
)

// CheckoutDraft is the client's checkout submission. ClaimedTotal is what the
// customer saw and approved; it is verified against the server recomputation,
// never charged as-is.
type CheckoutDraft struct {
	Spec         model.PrintSpec
	Customer     model.Customer
	Document     model.DocumentRef
	CouponCode   string
	ClaimedTotal decimal.Decimal
}

type InitiateResult struct {
	Order *model.Order
	Token string
}

// CheckoutUseCase coordinates pricing, coupons, order creation and the
// payment gateway handshake.
type CheckoutUseCase interface {
	// InitiatePayment recomputes the price server-side, persists a pending
	// order and opens a gateway session. Nothing is persisted and the gateway
	// is never contacted when validation or the price-integrity check fails.
	InitiatePayment(ctx context.Context, draft CheckoutDraft, user *model.User, clientIP string) (*InitiateResult, error)

	// ReconcileCallback processes the processor's asynchronous notification
	// and returns the plain-text acknowledgement to send back. A non-nil
	// error means the callback was NOT accepted (bad digest, storage
	// failure) and the ack is a failure token.
	ReconcileCallback(ctx context.Context, n adapter.Notification) (string, error)
}

// CallbackURLs are the processor-facing redirect and notification endpoints,
// derived from the public base URL at wiring time.
type CallbackURLs struct {
	OK     string
	Fail   string
	Notify string
}

var _ CheckoutUseCase = (*checkoutUC)(nil)

type checkoutUC struct {
	configs repository.ConfigRepository
	orders  repository.OrderRepository
	users   repository.UserRepository
	coupons CouponUseCase
	gateway adapter.PaymentGateway
	audit   repository.AuditLogRepository
	urls    CallbackURLs
	log     *zerolog.Logger
	now     func() time.Time
}

func NewCheckoutUseCase(
	configs repository.ConfigRepository,
	orders repository.OrderRepository,
	users repository.UserRepository,
	coupons CouponUseCase,
	gateway adapter.PaymentGateway,
	audit repository.AuditLogRepository,
	urls CallbackURLs,
	logger *zerolog.Logger,
) *checkoutUC {
	return &checkoutUC{
		configs: configs,
		orders:  orders,
		users:   users,
		coupons: coupons,
		gateway: gateway,
		audit:   audit,
		urls:    urls,
		log:     logger,
		now:     time.Now,
	}
}

func (u *checkoutUC) InitiatePayment(ctx context.Context, draft CheckoutDraft, user *model.User, clientIP string) (*InitiateResult, error) {
	if err := draft.Spec.Validate(); err != nil {
		return nil, err
	}
	if err := draft.Customer.Validate(); err != nil {
		return nil, err
	}
	if draft.Document.URL == "" {
		return nil, domain.ErrInvalidArgument
	}

	cfg, err := u.configs.Load(ctx)
	if err != nil {
		return nil, err
	}

	totals, err := pricing.ComputeTotals(&cfg.Pricing, draft.Spec)
	if err != nil {
		return nil, err
	}

	discount := u.resolveDiscount(ctx, draft, user, totals.Subtotal)

	// Re-derive tax and grand total from the discounted subtotal; the
	// undiscounted totals.Tax no longer applies.
	discounted := totals.Subtotal.Sub(discount.Amount)
	tax := pricing.Tax(&cfg.Pricing, discounted)
	grandTotal := discounted.Add(tax)

	if grandTotal.Sub(draft.ClaimedTotal).Abs().GreaterThan(priceEpsilon) {
		u.log.Warn().
			Str("server_total", grandTotal.String()).
			Str("client_total", draft.ClaimedTotal.String()).
			Msg("price integrity check failed")
		return nil, domain.ErrPriceMismatch
	}

	breakdown := model.PriceBreakdown{
		PrintCost:      totals.PrintCost,
		BindingCost:    totals.BindingCost,
		ShippingCost:   totals.ShippingCost,
		Subtotal:       totals.Subtotal,
		DiscountAmount: discount.Amount,
		Tax:            tax,
		GrandTotal:     grandTotal,
	}
	if discount.Applied {
		breakdown.DiscountPercent = discount.Percent
		breakdown.CouponCode = discount.CouponCode
	}

	userID := ""
	if user != nil {
		userID = user.ID
	}
	order, err := model.NewOrder(userID, draft.Customer, draft.Spec, draft.Document, breakdown)
	if err != nil {
		return nil, err
	}
	if err := u.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	ctx = logging.WithOrderID(ctx, order.ID)
	metrics.IncOrderCreated(string(order.Spec.Size), string(order.Spec.BindingType))
	u.auditEntry(ctx, model.LogTypeOrder, "order created", map[string]any{
		"orderId": order.ID,
		"total":   grandTotal.String(),
	})

	token, err := u.gateway.CreateSession(ctx, adapter.SessionRequest{
		OrderRef:    order.SanitizedID(),
		Email:       order.Customer.Email,
		Name:        order.Customer.Name,
		Address:     order.Customer.Address,
		Phone:       order.Customer.Phone,
		ClientIP:    clientIP,
		AmountMinor: minorUnits(grandTotal),
		BasketLabel: basketLabel,
		OKURL:       u.urls.OK,
		FailURL:     u.urls.Fail,
		NotifyURL:   u.urls.Notify,
	})
	if err != nil {
		// The pending order stays; the customer may retry checkout and the
		// stale order simply never receives a notification.
		metrics.IncPaymentSession(sessionOutcome(err))
		logging.With(ctx, u.log).Error().Err(err).Msg("gateway session creation failed")
		return nil, err
	}
	metrics.IncPaymentSession("created")
	logging.With(ctx, u.log).Info().
		Str("email", logging.Redact(order.Customer.Email)).
		Str("total", grandTotal.String()).
		Msg("payment session opened")

	return &InitiateResult{Order: order, Token: token}, nil
}

// resolveDiscount looks the coupon up and evaluates it. Unknown codes and
// anonymous checkouts quietly yield no discount.
func (u *checkoutUC) resolveDiscount(ctx context.Context, draft CheckoutDraft, user *model.User, subtotal decimal.Decimal) pricing.DiscountResult {
	if draft.CouponCode == "" || user == nil {
		return pricing.DiscountResult{Amount: decimal.Zero}
	}
	coupon, err := u.coupons.Get(ctx, draft.CouponCode)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			u.log.Warn().Err(err).Str("code", draft.CouponCode).Msg("coupon lookup failed")
		}
		return pricing.DiscountResult{Amount: decimal.Zero}
	}
	return pricing.ComputeDiscount(pricing.DiscountInput{
		BaseAmount: subtotal,
		User:       user,
		Coupon:     coupon,
		Now:        u.now().UTC(),
	})
}

func (u *checkoutUC) ReconcileCallback(ctx context.Context, n adapter.Notification) (string, error) {
	if n.OrderRef == "" || n.Status == "" || n.TotalAmount == "" || n.Hash == "" {
		metrics.IncPaymentNotification("unverified")
		return notifyAckFailed, domain.ErrInvalidArgument
	}

	if !u.gateway.VerifyNotification(n) {
		metrics.IncPaymentNotification("unverified")
		u.log.Error().Str("merchant_oid", n.OrderRef).Str("status", n.Status).Msg("notification digest mismatch")
		u.auditEntry(ctx, model.LogTypePayment, "notification rejected: digest mismatch", map[string]any{
			"merchantOid": n.OrderRef,
		})
		return notifyAckFailed, domain.ErrAuthenticity
	}

	order, err := u.orders.FindBySanitizedRef(ctx, n.OrderRef)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Not the processor's fault; acknowledge so it stops retrying.
			metrics.IncPaymentNotification("orphan")
			u.log.Error().Str("merchant_oid", n.OrderRef).Msg("notification for unknown order")
			return notifyAckOK, nil
		}
		return notifyAckFailed, err
	}
	ctx = logging.WithOrderID(ctx, order.ID)

	// The processor delivers at-least-once; a terminal order means this
	// notification was already applied.
	if order.IsTerminal() {
		metrics.IncPaymentNotification("duplicate")
		logging.With(ctx, u.log).Info().Str("status", string(order.Status)).Msg("duplicate notification acknowledged")
		return notifyAckOK, nil
	}

	if n.Succeeded() {
		if !order.MarkPaid(n.OrderRef) {
			return notifyAckOK, nil
		}
		if err := u.orders.Update(ctx, order); err != nil {
			return notifyAckFailed, err
		}
		metrics.IncOrderTransition(string(model.OrderStatusPaid))
		metrics.IncPaymentNotification("paid")
		if amt, perr := strconv.ParseInt(n.TotalAmount, 10, 64); perr == nil {
			metrics.AddRevenueKurus(amt)
		}
		u.auditEntry(ctx, model.LogTypePayment, "order paid", map[string]any{
			"orderId": order.ID,
			"amount":  n.TotalAmount,
		})

		// Side effects below run only on the pending→paid transition taken in
		// THIS call, so duplicate deliveries cannot repeat them.
		u.settleCoupon(ctx, order)
		u.maybeIssueReferralCoupon(ctx, order)
		return notifyAckOK, nil
	}

	if !order.MarkFailed(n.OrderRef) {
		return notifyAckOK, nil
	}
	if err := u.orders.Update(ctx, order); err != nil {
		return notifyAckFailed, err
	}
	metrics.IncOrderTransition(string(model.OrderStatusFailed))
	metrics.IncPaymentNotification("failed")
	logging.With(ctx, u.log).Info().
		Str("reason_code", n.FailedReasonCode).
		Str("reason", n.FailedReasonMsg).
		Msg("payment failed")
	u.auditEntry(ctx, model.LogTypePayment, "payment failed", map[string]any{
		"orderId":    order.ID,
		"reasonCode": n.FailedReasonCode,
		"reason":     n.FailedReasonMsg,
	})
	return notifyAckOK, nil
}

func (u *checkoutUC) settleCoupon(ctx context.Context, order *model.Order) {
	code := order.Breakdown.CouponCode
	if code == "" {
		return
	}
	if err := u.coupons.RedeemOnce(ctx, code); err != nil {
		logging.With(ctx, u.log).Error().Err(err).Str("code", code).Msg("coupon usage increment failed")
	}
}

// maybeIssueReferralCoupon rewards the referrer when the order's owner was
// referred, this is their first paid order, and the referral program is open.
// One hop only: the referrer's own referrer gets nothing.
func (u *checkoutUC) maybeIssueReferralCoupon(ctx context.Context, order *model.Order) {
	if order.UserID == "" {
		return
	}
	user, err := u.users.FindByID(ctx, order.UserID)
	if err != nil || user.ReferredByUserID == "" {
		return
	}

	prior, err := u.orders.ListByUser(ctx, user.ID)
	if err != nil {
		logging.With(ctx, u.log).Error().Err(err).Str("user_id", user.ID).Msg("referral check: order scan failed")
		return
	}
	for _, o := range prior {
		if o.ID != order.ID && o.Status == model.OrderStatusPaid {
			return // not the first paid order
		}
	}

	referrer, err := u.users.FindByID(ctx, user.ReferredByUserID)
	if err != nil {
		return
	}

	cfg, err := u.configs.Load(ctx)
	if err != nil {
		u.log.Error().Err(err).Msg("referral check: config load failed")
		return
	}
	m := &cfg.Marketing
	now := u.now().UTC()
	if !m.ReferralWindowOpen(now) {
		return
	}

	validFrom := now
	if m.ReferralValidFrom != nil {
		validFrom = *m.ReferralValidFrom
	}
	coupon, err := u.coupons.Issue(ctx, referrer.ID, model.CouponTypeReferral, m.ReferralDiscountPercent, validFrom, m.ReferralValidUntil)
	if err != nil {
		logging.With(ctx, u.log).Error().Err(err).Str("referrer_id", referrer.ID).Msg("referral coupon issuance failed")
		return
	}
	u.auditEntry(ctx, model.LogTypePayment, "referral coupon issued", map[string]any{
		"orderId":  order.ID,
		"referrer": referrer.ID,
		"code":     coupon.Code,
	})
}

func (u *checkoutUC) auditEntry(ctx context.Context, typ model.LogType, msg string, details map[string]any) {
	if err := u.audit.Append(ctx, model.NewLogEntry(typ, msg, details)); err != nil {
		u.log.Warn().Err(err).Msg("audit log append failed")
	}
}

func sessionOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrGatewayConfig):
		return "config_error"
	case errors.Is(err, domain.ErrGatewayUnavailable):
		return "unavailable"
	case domain.IsGatewayRejected(err):
		return "rejected"
	default:
		return "error"
	}
}

// minorUnits converts a 2-decimal currency amount into the integer smallest
// unit the processor expects (price × 100, rounded).
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
