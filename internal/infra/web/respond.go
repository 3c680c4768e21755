package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kopyalagelsin/storefront/internal/domain"
	"github.com/kopyalagelsin/storefront/internal/infra/i18n"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeDomainError maps a use-case error onto an HTTP status and a translated
// customer-facing message. Internal detail never reaches the response body.
func writeDomainError(w http.ResponseWriter, tr *i18n.Translator, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, tr.T("error_validation"))
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, tr.T("error_not_found"))
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, tr.T("error_email_taken"))
	case errors.Is(err, domain.ErrPriceMismatch):
		writeError(w, http.StatusConflict, tr.T("error_price_mismatch"))
	case errors.Is(err, domain.ErrGatewayConfig):
		writeError(w, http.StatusServiceUnavailable, tr.T("error_payment_config"))
	case errors.Is(err, domain.ErrGatewayUnavailable), domain.IsGatewayRejected(err):
		writeError(w, http.StatusBadGateway, tr.T("error_payment_init"))
	default:
		writeError(w, http.StatusInternalServerError, tr.T("error_generic"))
	}
}
