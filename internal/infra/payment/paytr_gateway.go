package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kopyalagelsin/storefront/internal/domain"
	"github.com/kopyalagelsin/storefront/internal/domain/ports/adapter"
)

const (
	getTokenURL = "https://www.paytr.com/odeme/api/get-token"

	defaultTimeout = 20 * time.Second

	// Seconds the hosted payment page stays open before PayTR abandons the
	// session on their side.
	sessionTimeoutLimit = "30"
)

// Credentials are the merchant secrets PayTR issues. All three are required
// for both outbound signing and inbound verification.
type Credentials struct {
	MerchantID   string
	MerchantKey  string
	MerchantSalt string
}

func (c Credentials) complete() bool {
	return c.MerchantID != "" && c.MerchantKey != "" && c.MerchantSalt != ""
}

var _ adapter.PaymentGateway = (*PayTRGateway)(nil)

// PayTRGateway implements the payment port against PayTR's iframe/get-token
// API. The token and notification digests follow PayTR's current published
// recipes; both are keyed HMAC-SHA256 over a fixed field concatenation and
// any deviation silently breaks authentication on their side.
type PayTRGateway struct {
	creds    Credentials
	testMode bool
	client   *http.Client
	endpoint string
}

func NewPayTRGateway(creds Credentials, testMode bool, timeout time.Duration) *PayTRGateway {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &PayTRGateway{
		creds:    creds,
		testMode: testMode,
		client:   &http.Client{Timeout: timeout},
		endpoint: getTokenURL,
	}
}

func (g *PayTRGateway) Name() string { return "paytr" }

type tokenResponse struct {
	Status string `json:"status"`
	Token  string `json:"token"`
	Reason string `json:"reason"`
}

// CreateSession posts a form-encoded token request. The paytr_token digest is
//
//	base64(HMAC-SHA256(merchant_key,
//	    merchant_id + user_ip + merchant_oid + email + payment_amount +
//	    user_basket + no_installment + max_installment + currency +
//	    test_mode + merchant_salt))
func (g *PayTRGateway) CreateSession(ctx context.Context, req adapter.SessionRequest) (string, error) {
	if !g.creds.complete() {
		return "", domain.ErrGatewayConfig
	}

	amount := strconv.FormatInt(req.AmountMinor, 10)
	basket, err := encodeBasket(req.BasketLabel, amount)
	if err != nil {
		return "", fmt.Errorf("encode basket: %w", err)
	}

	const (
		currency       = "TL"
		noInstallment  = "0"
		maxInstallment = "0"
	)
	testMode := "0"
	if g.testMode {
		testMode = "1"
	}

	hashStr := g.creds.MerchantID + req.ClientIP + req.OrderRef + req.Email +
		amount + basket + noInstallment + maxInstallment + currency + testMode
	token := g.sign(hashStr + g.creds.MerchantSalt)

	form := url.Values{}
	form.Set("merchant_id", g.creds.MerchantID)
	form.Set("user_ip", req.ClientIP)
	form.Set("merchant_oid", req.OrderRef)
	form.Set("email", req.Email)
	form.Set("payment_amount", amount)
	form.Set("paytr_token", token)
	form.Set("user_basket", basket)
	form.Set("no_installment", noInstallment)
	form.Set("max_installment", maxInstallment)
	form.Set("currency", currency)
	form.Set("test_mode", testMode)
	form.Set("debug_on", testMode)
	form.Set("user_name", req.Name)
	form.Set("user_address", req.Address)
	form.Set("user_phone", strings.ReplaceAll(req.Phone, " ", ""))
	form.Set("merchant_ok_url", req.OKURL)
	form.Set("merchant_fail_url", req.FailURL)
	form.Set("merchant_notify_url", req.NotifyURL)
	form.Set("timeout_limit", sessionTimeoutLimit)
	form.Set("lang", "tr")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", domain.ErrGatewayUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: http %d", domain.ErrGatewayUnavailable, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("%w: unparseable response: %v", domain.ErrGatewayUnavailable, err)
	}
	if tr.Status != "success" {
		reason := tr.Reason
		if reason == "" {
			reason = "unspecified"
		}
		return "", &domain.GatewayRejectedError{Reason: reason}
	}
	if tr.Token == "" {
		return "", errors.New("paytr: success response without token")
	}
	return tr.Token, nil
}

// VerifyNotification recomputes
//
//	base64(HMAC-SHA256(merchant_key,
//	    merchant_oid + merchant_salt + status + total_amount))
//
// and compares in constant time. Missing credentials verify nothing.
func (g *PayTRGateway) VerifyNotification(n adapter.Notification) bool {
	if !g.creds.complete() {
		return false
	}
	expected := g.sign(n.OrderRef + g.creds.MerchantSalt + n.Status + n.TotalAmount)
	return hmac.Equal([]byte(expected), []byte(n.Hash))
}

func (g *PayTRGateway) sign(data string) string {
	mac := hmac.New(sha256.New, []byte(g.creds.MerchantKey))
	mac.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// encodeBasket builds the base64 JSON basket PayTR expects:
// [[name, unitPriceMinorUnits, quantity], ...] — one line for the whole order.
func encodeBasket(label, amountMinor string) (string, error) {
	items := [][]string{{label, amountMinor, "1"}}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// NotificationFromForm maps PayTR's POSTed form fields onto the port type.
func NotificationFromForm(v url.Values) adapter.Notification {
	return adapter.Notification{
		OrderRef:         v.Get("merchant_oid"),
		Status:           v.Get("status"),
		TotalAmount:      v.Get("total_amount"),
		Hash:             v.Get("hash"),
		FailedReasonCode: v.Get("failed_reason_code"),
		FailedReasonMsg:  v.Get("failed_reason_msg"),
		PaymentType:      v.Get("payment_type"),
		Currency:         v.Get("currency"),
		TestMode:         v.Get("test_mode"),
	}
}
