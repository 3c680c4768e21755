package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kopyalagelsin/storefront/internal/domain"
	"github.com/kopyalagelsin/storefront/internal/domain/model"
	"github.com/kopyalagelsin/storefront/internal/domain/pricing"
	"github.com/kopyalagelsin/storefront/internal/infra/payment"
	"github.com/kopyalagelsin/storefront/internal/usecase"
)

// maxUploadBytes caps customer PDF uploads at 25 MB.
const maxUploadBytes = 25 << 20

type checkoutRequest struct {
	Spec       model.PrintSpec   `json:"spec"`
	Customer   model.Customer    `json:"customer"`
	Document   model.DocumentRef `json:"document"`
	CouponCode string            `json:"couponCode,omitempty"`
	Total      decimal.Decimal   `json:"total"`
}

// checkoutInitHandler opens a payment session for the submitted order draft.
// The session works both logged-in and anonymous; coupons need a session.
func (s *Server) checkoutInitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req checkoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, s.tr.T("error_validation"))
			return
		}

		var user *model.User
		if userID, err := s.auth.ParseCustomer(r); err == nil {
			if u, err := s.userUC.Get(ctx, userID); err == nil {
				user = u
			}
		}

		res, err := s.checkoutUC.InitiatePayment(ctx, usecase.CheckoutDraft{
			Spec:         req.Spec,
			Customer:     req.Customer,
			Document:     req.Document,
			CouponCode:   strings.TrimSpace(req.CouponCode),
			ClaimedTotal: req.Total,
		}, user, clientIP(r))
		if err != nil {
			s.log.Error().Err(err).Msg("checkout initiation failed")
			writeDomainError(w, s.tr, err)
			return
		}

		writeJSON(w, http.StatusOK, struct {
			OrderID string `json:"orderId"`
			Token   string `json:"token"`
		}{OrderID: res.Order.ID, Token: res.Token})
	}
}

// paymentNotifyHandler receives the processor's server-to-server callback.
// The response body is the plain-text acknowledgement protocol the processor
// expects, not JSON.
func (s *Server) paymentNotifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}

		ack, err := s.checkoutUC.ReconcileCallback(r.Context(), payment.NotificationFromForm(r.PostForm))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, domain.ErrAuthenticity) || errors.Is(err, domain.ErrInvalidArgument) {
				status = http.StatusBadRequest
			}
			w.WriteHeader(status)
			io.WriteString(w, ack)
			return
		}
		io.WriteString(w, ack)
	}
}

// quoteHandler recomputes the price for a draft spec so the storefront can
// show live totals. Read-only; nothing is persisted.
func (s *Server) quoteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var spec model.PrintSpec
		if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
			writeError(w, http.StatusBadRequest, s.tr.T("error_validation"))
			return
		}
		if err := spec.Validate(); err != nil {
			writeDomainError(w, s.tr, err)
			return
		}

		cfg, err := s.configUC.Get(ctx)
		if err != nil {
			writeDomainError(w, s.tr, err)
			return
		}
		totals, err := pricing.ComputeTotals(&cfg.Pricing, spec)
		if err != nil {
			writeDomainError(w, s.tr, err)
			return
		}
		writeJSON(w, http.StatusOK, totals)
	}
}

// uploadHandler stores the customer's file and returns its reference for the
// subsequent checkout call.
func (s *Server) uploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusRequestEntityTooLarge, s.tr.T("error_validation"))
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, s.tr.T("error_validation"))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, s.tr.T("error_validation"))
			return
		}

		url, err := s.documents.Put(r.Context(), header.Filename, data)
		if err != nil {
			s.log.Error().Err(err).Str("name", header.Filename).Msg("document store write failed")
			writeError(w, http.StatusInternalServerError, s.tr.T("error_generic"))
			return
		}

		writeJSON(w, http.StatusCreated, model.DocumentRef{
			URL:       url,
			Name:      header.Filename,
			SizeBytes: int64(len(data)),
		})
	}
}

// publicConfigHandler exposes the storefront-facing slice of the config
// document: pricing for the calculator, UI content, signup popup flag.
func (s *Server) publicConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := s.configUC.Get(r.Context())
		if err != nil {
			writeDomainError(w, s.tr, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Pricing           model.PricingConfig `json:"pricing"`
			UI                model.UIConfig      `json:"ui"`
			EnableSignupPopup bool                `json:"enableSignupPopup"`
		}{
			Pricing:           cfg.Pricing,
			UI:                cfg.UI,
			EnableSignupPopup: cfg.Marketing.EnableSignupPopup,
		})
	}
}

// myOrdersHandler lists the session user's orders, newest first.
func (s *Server) myOrdersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFrom(r)
		orders, err := s.orderUC.ListForUser(r.Context(), userID)
		if err != nil {
			writeDomainError(w, s.tr, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []*model.Order `json:"data"`
		}{Data: orders})
	}
}

func (s *Server) myOrderGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := s.orderUC.GetOwned(r.Context(), pathID(r), userIDFrom(r))
		if err != nil {
			writeDomainError(w, s.tr, err)
			return
		}
		writeJSON(w, http.StatusOK, order)
	}
}

// myCouponsHandler lists the session user's coupons.
func (s *Server) myCouponsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		coupons, err := s.couponUC.ListForUser(r.Context(), userIDFrom(r))
		if err != nil {
			writeDomainError(w, s.tr, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []*model.Coupon `json:"data"`
		}{Data: coupons})
	}
}

// couponCheckHandler validates a coupon code for the session user and returns
// its discount, so the storefront can show the discounted total before
// checkout.
func (s *Server) couponCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req struct {
			Code string `json:"code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
			writeError(w, http.StatusBadRequest, s.tr.T("error_validation"))
			return
		}

		user, err := s.userUC.Get(ctx, userIDFrom(r))
		if err != nil {
			writeDomainError(w, s.tr, err)
			return
		}
		coupon, err := s.couponUC.Get(ctx, strings.TrimSpace(req.Code))
		if err != nil {
			writeDomainError(w, s.tr, err)
			return
		}

		res := pricing.ComputeDiscount(pricing.DiscountInput{
			BaseAmount: decimal.New(100, 0), // percent probe
			User:       user,
			Coupon:     coupon,
			Now:        s.now(),
		})
		if !res.Applied {
			writeError(w, http.StatusNotFound, s.tr.T("error_not_found"))
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Code            string `json:"code"`
			DiscountPercent int    `json:"discountPercent"`
		}{Code: coupon.Code, DiscountPercent: res.Percent})
	}
}
