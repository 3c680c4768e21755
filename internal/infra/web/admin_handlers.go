package web

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/kopyalagelsin/storefront/internal/domain/model"
)

func (s *Server) adminLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.adminEmail == "" || s.adminPassword == "" {
			s.log.Error().Msg("admin credentials are not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, s.tr.T("error_validation"))
			return
		}

		emailOK := strings.EqualFold(strings.TrimSpace(req.Email), s.adminEmail)
		passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.adminPassword)) == 1
		if !emailOK || !passOK {
			writeError(w, http.StatusUnauthorized, s.tr.T("error_login_failed"))
			return
		}

		if _, err := s.auth.MintAdmin(w, s.adminEmail); err != nil {
			writeError(w, http.StatusInternalServerError, s.tr.T("error_generic"))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) adminLogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.auth.ClearAdmin(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) adminConfigGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := s.configUC.Get(r.Context())
		if err != nil {
			writeDomainError(w, s.tr, err)
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	}
}

func (s *Server) adminConfigPutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cfg model.AppConfig
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			writeError(w, http.StatusBadRequest, s.tr.T("error_validation"))
			return
		}
		if err := s.configUC.Update(r.Context(), &cfg, adminFrom(r)); err != nil {
			writeDomainError(w, s.tr, err)
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	}
}

func (s *Server) adminOrdersListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := s.orderUC.ListAll(r.Context())
		if err != nil {
			writeDomainError(w, s.tr, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []*model.Order `json:"data"`
		}{Data: orders})
	}
}

func (s *Server) adminOrderGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := s.orderUC.Get(r.Context(), pathID(r))
		if err != nil {
			writeDomainError(w, s.tr, err)
			return
		}
		writeJSON(w, http.StatusOK, order)
	}
}

func (s *Server) adminCouponsListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		coupons, err := s.couponUC.ListAll(r.Context())
		if err != nil {
			writeDomainError(w, s.tr, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []*model.Coupon `json:"data"`
		}{Data: coupons})
	}
}

type adminCouponIssueRequest struct {
	UserID          string     `json:"userId"`
	Type            string     `json:"type"`
	DiscountPercent int        `json:"discountPercent"`
	ValidFrom       *time.Time `json:"validFrom,omitempty"`
	ValidUntil      *time.Time `json:"validUntil,omitempty"`
}

func (s *Server) adminCouponIssueHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminCouponIssueRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, s.tr.T("error_validation"))
			return
		}

		typ := model.CouponType(req.Type)
		if typ != model.CouponTypeWelcome && typ != model.CouponTypeReferral {
			writeError(w, http.StatusBadRequest, s.tr.T("error_validation"))
			return
		}

		validFrom := time.Now().UTC()
		if req.ValidFrom != nil {
			validFrom = *req.ValidFrom
		}
		coupon, err := s.couponUC.Issue(r.Context(), req.UserID, typ, req.DiscountPercent, validFrom, req.ValidUntil)
		if err != nil {
			writeDomainError(w, s.tr, err)
			return
		}
		writeJSON(w, http.StatusCreated, coupon)
	}
}

func (s *Server) adminCouponToggleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Active bool `json:"active"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, s.tr.T("error_validation"))
			return
		}
		if err := s.couponUC.SetActive(r.Context(), pathID(r), req.Active); err != nil {
			writeDomainError(w, s.tr, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) adminUsersListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := s.userRepo.ListAll(r.Context())
		if err != nil {
			writeDomainError(w, s.tr, err)
			return
		}
		views := make([]accountView, 0, len(users))
		for _, u := range users {
			views = append(views, viewOf(u))
		}
		writeJSON(w, http.StatusOK, struct {
			Data []accountView `json:"data"`
		}{Data: views})
	}
}

func (s *Server) adminLogsListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := s.audit.ListRecent(r.Context())
		if err != nil {
			writeDomainError(w, s.tr, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []model.LogEntry `json:"data"`
		}{Data: entries})
	}
}

func (s *Server) adminLogsClearHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.audit.Clear(r.Context()); err != nil {
			writeDomainError(w, s.tr, err)
			return
		}
		entry := model.NewLogEntry(model.LogTypeAdmin, "audit log cleared", nil)
		entry.AdminUser = adminFrom(r)
		if err := s.audit.Append(r.Context(), entry); err != nil {
			s.log.Warn().Err(err).Msg("audit log append failed")
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
