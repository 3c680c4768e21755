package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/kopyalagelsin/storefront/internal/domain"
	"github.com/kopyalagelsin/storefront/internal/domain/model"
)

type registerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	ReferralCode string `json:"referralCode,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// accountView is the user as returned to the browser. The password hash and
// the internal referrer id never leave the server.
type accountView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	ReferralCode string `json:"referralCode"`
}

func viewOf(u *model.User) accountView {
	return accountView{ID: u.ID, Name: u.Name, Email: u.Email, ReferralCode: u.ReferralCode}
}

func (s *Server) registerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, s.tr.T("error_validation"))
			return
		}

		user, err := s.userUC.Register(r.Context(), req.Name, req.Email, req.Password, strings.TrimSpace(req.ReferralCode))
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrAlreadyExists):
				writeError(w, http.StatusConflict, s.tr.T("error_email_taken"))
			case errors.Is(err, domain.ErrInvalidArgument):
				writeError(w, http.StatusBadRequest, s.tr.T("error_password_short"))
			default:
				writeError(w, http.StatusInternalServerError, s.tr.T("error_generic"))
			}
			return
		}

		if _, err := s.auth.MintCustomer(w, user.ID); err != nil {
			writeError(w, http.StatusInternalServerError, s.tr.T("error_generic"))
			return
		}
		writeJSON(w, http.StatusCreated, struct {
			User    accountView `json:"user"`
			Message string      `json:"message"`
		}{User: viewOf(user), Message: s.tr.T("register_success")})
	}
}

func (s *Server) loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, s.tr.T("error_validation"))
			return
		}

		user, err := s.userUC.Authenticate(r.Context(), strings.TrimSpace(req.Email), req.Password)
		if err != nil {
			writeError(w, http.StatusUnauthorized, s.tr.T("error_login_failed"))
			return
		}

		if _, err := s.auth.MintCustomer(w, user.ID); err != nil {
			writeError(w, http.StatusInternalServerError, s.tr.T("error_generic"))
			return
		}
		writeJSON(w, http.StatusOK, viewOf(user))
	}
}

func (s *Server) logoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.auth.ClearCustomer(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.userUC.Get(r.Context(), userIDFrom(r))
		if err != nil {
			writeDomainError(w, s.tr, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(user))
	}
}
