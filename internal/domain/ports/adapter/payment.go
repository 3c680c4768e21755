package adapter

import "context"

// SessionRequest is everything the processor needs to open a hosted payment
// session. AmountMinor is in the smallest currency unit (kuruş); OrderRef is
// the sanitized order id the processor will echo back as merchant_oid.
type SessionRequest struct {
	OrderRef    string
	Email       string
	Name        string
	Address     string
	Phone       string
	ClientIP    string
	AmountMinor int64
	BasketLabel string
	OKURL       string
	FailURL     string
	NotifyURL   string
}

// Notification is the processor's asynchronous payment-result callback,
// verbatim as received. TotalAmount stays a string because it is an input to
// the authenticity digest and must not be re-formatted before verification.
type Notification struct {
	OrderRef         string
	Status           string
	TotalAmount      string
	Hash             string
	FailedReasonCode string
	FailedReasonMsg  string
	PaymentType      string
	Currency         string
	TestMode         string
}

// Succeeded reports whether the processor marked the payment successful.
// Anything other than the documented success status is a failure.
func (n Notification) Succeeded() bool { return n.Status == "success" }

// PaymentGateway is the hex port for the external payment processor.
type PaymentGateway interface {
	Name() string

	// CreateSession requests a hosted payment session and returns the session
	// token. Errors: domain.ErrGatewayConfig when merchant credentials are
	// absent, domain.ErrGatewayUnavailable on transport failure or timeout,
	// *domain.GatewayRejectedError when the processor refused the request.
	CreateSession(ctx context.Context, req SessionRequest) (token string, err error)

	// VerifyNotification recomputes the authenticity digest over the
	// documented field order and compares it against the received hash in
	// constant time. A false return must never be treated as success.
	VerifyNotification(n Notification) bool
}
